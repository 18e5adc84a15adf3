package db

import (
	"os"
	"strconv"

	"github.com/harpsync/harpsync/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

const tableName = "harpsync-songs"

// Enabled reports whether a metadata endpoint is configured at all.
// Alignment works fully offline; metadata only decorates reports.
func Enabled() bool {
	return os.Getenv("HARPSYNC_DB_ENDPOINT") != ""
}

// GetSongMetadatas fetches song metadata keyed by MIDI filename.
func GetSongMetadatas(filenames []string) map[string]model.SongMetadata {
	if len(filenames) > 10 {
		panic("Not supposed to pass in more than 10 filenames!")
	}

	res := make(map[string]model.SongMetadata)

	if len(filenames) == 0 {
		return res
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		key := make(map[string]*dynamodb.AttributeValue)
		key["PK"] = &dynamodb.AttributeValue{
			S: aws.String(filename),
		}
		keys = append(keys, key)
	}

	endpoint := os.Getenv("HARPSYNC_DB_ENDPOINT")
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		panic("Could not create a new DynamoDB session because " + err.Error())
	}

	client := dynamodb.New(session)
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			tableName: {Keys: keys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}

	for _, v := range dbres.Responses[tableName] {
		var s model.SongMetadata
		if v["Year"] != nil && v["Year"].N != nil {
			year, _ := strconv.ParseUint(*v["Year"].N, 10, 32)
			s.Year = uint(year)
		}
		if v["Artist"] != nil && v["Artist"].S != nil {
			s.Artist = *v["Artist"].S
		}
		if v["Title"] != nil && v["Title"].S != nil {
			s.Title = *v["Title"].S
		}
		if v["Release"] != nil && v["Release"].S != nil {
			s.Release = *v["Release"].S
		}
		if v["HarpKey"] != nil && v["HarpKey"].S != nil {
			s.HarpKey = *v["HarpKey"].S
		}
		res[*v["PK"].S] = s
	}

	return res
}

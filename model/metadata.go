package model

type SongMetadata struct {
	Artist  string
	Title   string
	Release string
	Year    uint
	HarpKey string
}

package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/harpsync/harpsync/model"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var (
	serveKey  string
	serveAddr string

	currentMu sync.RWMutex
	current   *song
)

func init() {
	serveCmd.Flags().StringVarP(&serveKey, "key", "k", "", "harmonica key (defaults to config)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve <midi-file> <tab-file>",
	Short: "Serve alignment results over HTTP for render previews",
	Long:  `Aligns a song and serves the schedule and active-target queries over HTTP. The tab file is watched and re-aligned on change.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := serveKey
		if key == "" {
			key = loadConfig().Key
		}
		if err := LoadSong(args[0], args[1], key); err != nil {
			fmt.Printf("Could not load song: %v\n", err)
			os.Exit(1)
		}
		serve()
	},
}

// LoadSong processes a midi + tab pair and installs it as the served
// song. Exported so the e2e tests can drive the handlers directly.
func LoadSong(midiPath, tabPath, key string) error {
	s, err := processSong(midiPath, tabPath, key, loadConfig())
	if err != nil {
		return err
	}
	currentMu.Lock()
	current = s
	currentMu.Unlock()
	return nil
}

func HandleActive(w http.ResponseWriter, r *http.Request) {
	currentMu.RLock()
	s := current
	currentMu.RUnlock()
	if s == nil {
		writeError(w, "no song loaded", 503)
		return
	}

	t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil {
		writeError(w, "query parameter t must be a time in seconds", 400)
		return
	}

	targets := s.tl.ActiveAt(t)
	if targets == nil {
		targets = []string{}
	}
	json.NewEncoder(w).Encode(model.ActiveResponse{Time: t, Targets: targets})
}

func HandleSchedule(w http.ResponseWriter, r *http.Request) {
	currentMu.RLock()
	s := current
	currentMu.RUnlock()
	if s == nil {
		writeError(w, "no song loaded", 503)
		return
	}

	json.NewEncoder(w).Encode(model.ScheduleResponse{
		Holes:   s.sched.Holes,
		Entries: s.sched.Entries,
		Pages:   s.sched.Pages,
	})
}

func HandleReport(w http.ResponseWriter, r *http.Request) {
	currentMu.RLock()
	s := current
	currentMu.RUnlock()
	if s == nil {
		writeError(w, "no song loaded", 503)
		return
	}

	json.NewEncoder(w).Encode(s.result.Report)
}

func writeError(w http.ResponseWriter, msg string, code int) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/active", HandleActive).Methods("GET")
	router.HandleFunc("/schedule", HandleSchedule).Methods("GET")
	router.HandleFunc("/report", HandleReport).Methods("GET")

	go watchTabFile()

	fmt.Printf("Serving on %v\n", serveAddr)
	log.Fatal(http.ListenAndServe(serveAddr, cors.Default().Handler(router)))
}

// watchTabFile polls the tab file and re-aligns when it changes.
// Editors write files in bursts, so the reload is debounced.
func watchTabFile() {
	debounced := debounce.New(500 * time.Millisecond)

	currentMu.RLock()
	s := current
	currentMu.RUnlock()
	if s == nil {
		return
	}
	midiPath, tabPath, key := s.midiPath, s.tabPath, s.key

	var lastMod time.Time
	if fi, err := os.Stat(tabPath); err == nil {
		lastMod = fi.ModTime()
	}

	for range time.Tick(time.Second) {
		fi, err := os.Stat(tabPath)
		if err != nil || !fi.ModTime().After(lastMod) {
			continue
		}
		lastMod = fi.ModTime()
		debounced(func() {
			fmt.Printf("Tab file changed, re-aligning %v\n", tabPath)
			if err := LoadSong(midiPath, tabPath, key); err != nil {
				fmt.Printf("Reload failed: %v\n", err)
			}
		})
	}
}

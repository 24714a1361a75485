package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/scorexml/config"
	"github.com/jsphweid/scorexml/logger"
	"github.com/jsphweid/scorexml/merge"
	"github.com/jsphweid/scorexml/model"
	"github.com/jsphweid/scorexml/musicxml"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const (
	maxBodyBytes    = 32 << 20
	musicXMLContent = "application/vnd.recordare.musicxml+xml"
)

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().StringSlice("allowed-origins", []string{"*"}, "CORS origins allowed to call the API")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves document generation and merging over HTTP",
	Long: `Serves document generation and merging over HTTP.

  POST /generate   score (JSON or YAML)        -> MusicXML document
  POST /merge      {"pages": [MusicXML, ...]}  -> combined MusicXML document`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := configFrom(ctx)
		return serve(ctx, cfg, logger.FromContext(ctx))
	},
}

func serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           NewRouter(cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type server struct {
	builder *musicxml.Builder
	log     logger.Logger
}

func NewRouter(cfg *config.Config, log logger.Logger) http.Handler {
	s := &server{builder: musicxml.New(cfg.BuilderOptions()), log: log}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	router.HandleFunc("/merge", s.handleMerge).Methods(http.MethodPost)
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}).Handler(router)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// handleGenerate builds the document of one page. Octaves are made safe
// across the page's own staffs unless octave_safe=false.
func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	score, err := model.DecodeBytes(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var siblings []model.Staff
	if r.URL.Query().Get("octave_safe") != "false" {
		siblings = score.Staffs
	}
	doc, err := s.builder.GenerateDocument(score, siblings)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrInvalidScore) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", musicXMLContent)
	if _, err := doc.WriteTo(w); err != nil {
		s.log.Warn("could not write response", "error", err)
	}
}

// handleMerge joins the posted pages in request order.
func (s *server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var input model.MergeRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(input.Pages) == 0 {
		writeError(w, http.StatusBadRequest, merge.ErrNothingToMerge)
		return
	}

	pages := make([]merge.Page, 0, len(input.Pages))
	for i, page := range input.Pages {
		name := "page " + strconv.Itoa(i+1)
		doc, err := merge.Parse([]byte(page), name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		pages = append(pages, merge.Page{Path: name, Doc: doc})
	}

	doc, err := merge.Documents(pages)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	data, err := merge.Serialize(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.log.Debug("merged pages", "pages", len(pages), "parts", len(merge.PartIDs(doc)))

	w.Header().Set("Content-Type", musicXMLContent)
	if _, err := w.Write(data); err != nil {
		s.log.Warn("could not write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

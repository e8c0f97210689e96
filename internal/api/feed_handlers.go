package api

import (
	"log/slog"
	"net/http"

	"github.com/listenupapp/pressroom/internal/http/response"
)

const feedCacheControl = "public, max-age=300"

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	body, err := s.services.Feed.RSS(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	writeDocument(w, "application/xml; charset=utf-8", body, s.logger)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	body, err := s.services.Feed.Sitemap(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	writeDocument(w, "application/xml; charset=utf-8", body, s.logger)
}

func (s *Server) handleRobots(w http.ResponseWriter, _ *http.Request) {
	writeDocument(w, "text/plain; charset=utf-8", []byte(s.services.Feed.Robots()), s.logger)
}

func writeDocument(w http.ResponseWriter, contentType string, body []byte, logger *slog.Logger) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", feedCacheControl)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.Error("Failed to write document", "error", err)
	}
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"docqa/internal/pipeline"
)

type askRequest struct {
	Query string `json:"query" form:"query"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}

// upload indexes a single file and makes it the client's active document.
func (s *Server) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	filename := filepath.Base(fh.Filename)
	if !s.formats.Supports(filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": s.unsupportedMessage()})
		return
	}

	clientID := s.clientID(c)
	log := s.logger.With(zap.String("client_id", clientID), zap.String("filename", filename))

	dir, err := os.MkdirTemp(s.cfg.UploadDir, "upload-")
	if err != nil {
		log.Error("create upload dir", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process document: " + err.Error()})
		return
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("remove upload dir", zap.String("dir", dir), zap.Error(err))
		}
	}()

	if err := c.SaveUploadedFile(fh, filepath.Join(dir, filename)); err != nil {
		log.Error("save upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process document: " + err.Error()})
		return
	}

	p, err := s.builder.Build(c.Request.Context(), dir)
	if err != nil {
		log.Warn("build pipeline", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process document: " + err.Error()})
		return
	}
	s.sessions.Swap(clientID, p)
	log.Info("document indexed", zap.Int("chunks", p.ChunkCount()))

	c.SetCookie(CookieName, clientID, CookieMaxAge, "/", "", s.cfg.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  fmt.Sprintf("Document '%s' uploaded and indexed successfully.", filename),
		"filename": filename,
		"summary":  p.Summary(),
	})
}

// ask answers a question against the client's active document.
func (s *Server) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is missing"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is missing"})
		return
	}

	clientID, _ := c.Cookie(CookieName)
	p, ok := s.sessions.Get(clientID)
	if clientID == "" || !ok {
		c.JSON(http.StatusOK, pipeline.NoDocumentAnswer())
		return
	}

	ans, err := p.Ask(c.Request.Context(), req.Query)
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		s.logger.Error("answer query", zap.String("client_id", clientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing query: " + err.Error()})
	default:
		c.JSON(http.StatusOK, ans)
	}
}

func (s *Server) clientID(c *gin.Context) string {
	if id, err := c.Cookie(CookieName); err == nil && id != "" {
		return id
	}
	return uuid.NewString()
}

func (s *Server) unsupportedMessage() string {
	exts := s.formats.Extensions()
	names := make([]string, len(exts))
	for i, ext := range exts {
		names[i] = strings.ToUpper(strings.TrimPrefix(ext, "."))
	}
	return fmt.Sprintf("Only %s files are supported", strings.Join(names, ", "))
}

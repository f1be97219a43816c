package drive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/gorilla/mux"
)

// FolderResolver turns a slash-separated folder path into a Drive folder ID.
type FolderResolver interface {
	FindFolderByPath(ctx context.Context, path string) (string, error)
}

type Handler struct {
	resolver      FolderResolver
	ingestService *IngestService
	defaultFolder string
}

func NewHandler(resolver FolderResolver, ingestService *IngestService, defaultFolder string) *Handler {
	return &Handler{
		resolver:      resolver,
		ingestService: ingestService,
		defaultFolder: defaultFolder,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods(http.MethodGet)
	router.HandleFunc("/api/drive/ingest", h.IngestFile).Methods(http.MethodPost)
	router.HandleFunc("/api/drive/ingest/folder", h.IngestFolder).Methods(http.MethodPost)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeJSON(w, status, map[string]string{"error": message, "details": err.Error()})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// folderFrom resolves ?path= first, then ?folderId=, then the default folder.
func (h *Handler) folderFrom(r *http.Request) (string, error) {
	query := r.URL.Query()
	if path := query.Get("path"); path != "" {
		if h.resolver == nil {
			return "", errors.New("folder paths are not supported")
		}
		return h.resolver.FindFolderByPath(r.Context(), path)
	}
	if id := query.Get("folderId"); id != "" {
		return id, nil
	}
	return h.defaultFolder, nil
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	folderID, err := h.folderFrom(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "folder not found", err)
		return
	}

	files, err := h.ingestService.source.ListFiles(r.Context(), folderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list files", err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (h *Handler) IngestFile(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	file := &File{ID: query.Get("fileId"), Name: query.Get("name"), MimeType: query.Get("mimeType")}
	if file.ID == "" {
		writeError(w, http.StatusBadRequest, "fileId parameter is required", errors.New("missing fileId"))
		return
	}
	if file.Name == "" && file.MimeType == "" {
		file.MimeType = mimeCSV
	}

	res, err := h.ingestService.IngestFile(r.Context(), file)
	if err != nil {
		status := http.StatusInternalServerError
		if domain.IsValidation(err) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, "ingestion failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) IngestFolder(w http.ResponseWriter, r *http.Request) {
	folderID, err := h.folderFrom(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "folder not found", err)
		return
	}

	results, err := h.ingestService.IngestFolder(r.Context(), folderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "folder ingestion failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folder_id": folderID, "files": results})
}

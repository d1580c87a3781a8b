package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	auth "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/export"
	"github.com/mind-engage/mindengage-qpaper/internal/paper"
	"github.com/mind-engage/mindengage-qpaper/internal/storage"
)

type exportRequest struct {
	PaperData          json.RawMessage     `json:"paperData"`
	PresentationConfig export.Presentation `json:"presentationConfig"`
}

// Exporter renders papers and archives every rendered file. A nil blob store
// disables archiving.
type Exporter struct {
	Blobs    storage.BlobStore
	Defaults export.Presentation
	Log      *zap.Logger
}

// DownloadHandler serves POST /api/paper/download-{word,pdf,json}.
func (x *Exporter) DownloadHandler(f export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in exportRequest
		if !decode(w, r, &in) {
			return
		}
		raw := bytes.TrimSpace(in.PaperData)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			badRequest(w, "Invalid paper data")
			return
		}
		var p paper.Paper
		if err := json.Unmarshal(raw, &p); err != nil {
			badRequest(w, "Invalid paper data")
			return
		}

		doc := export.Document{Paper: p, Presentation: in.PresentationConfig.Merge(x.Defaults)}
		if f == export.FormatJSON {
			doc.Raw = raw
		}
		var buf bytes.Buffer
		err := export.Render(&buf, f, doc)
		if errors.Is(err, export.ErrEmptyPaper) {
			badRequest(w, "Invalid paper data")
			return
		}
		if err != nil {
			fail(w, x.Log, "render "+string(f), err)
			return
		}

		name := export.Filename(p.PaperName, f)
		if key := x.archive(r, name, buf.Bytes()); key != "" {
			w.Header().Set("X-Archive-Key", key)
		}
		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		_, _ = buf.WriteTo(w)
	}
}

func (x *Exporter) archive(r *http.Request, name string, body []byte) string {
	if x.Blobs == nil {
		return ""
	}
	p := auth.PrincipalFromContext(r.Context())
	key, err := x.Blobs.Put(r.Context(), storage.ExportKey(p.UserID, name), bytes.NewReader(body))
	if err != nil {
		x.Log.Warn("archive export failed", zap.String("file", name), zap.Error(err))
		return ""
	}
	return key
}

// MountArchive serves GET /* below the mount point. Callers only see their
// own exports unless they are admins.
func (x *Exporter) MountArchive(r chi.Router) {
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		p := auth.PrincipalFromContext(r.Context())
		if p.Role != auth.RoleAdmin && !strings.HasPrefix(key, fmt.Sprintf("papers/%s/", p.UserID)) {
			writeJSON(w, http.StatusNotFound, errorBody{Message: "not found"})
			return
		}
		rc, err := x.Blobs.Get(r.Context(), key)
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			writeJSON(w, http.StatusNotFound, errorBody{Message: "not found"})
			return
		}
		if err != nil {
			fail(w, x.Log, "read export", err)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}

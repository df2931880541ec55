package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/auth"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/storage"
)

// maxBodyBytes bounds JSON bodies, which may carry base64 photos and attachments.
const maxBodyBytes = 20 << 20

func actorFrom(w http.ResponseWriter, r *http.Request) (identity.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return identity.Actor{}, false
	}
	return actor, true
}

// decodeJSON writes a 400 and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// writeFile streams a stored file to the client and closes it.
func writeFile(w http.ResponseWriter, obj storage.Object) {
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": obj.Name}))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		slog.Warn("failed to stream file", "name", obj.Name, "error", err)
	}
}

// queryInt returns 0 for a missing or malformed value so the filter applies its default.
func queryInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return value
}

func queryList(r *http.Request, key string) []string {
	var values []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

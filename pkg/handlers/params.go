package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// ParseAssetID extracts and validates the asset ID from the request path.
// Returns the parsed id and true on success, or writes an error response
// and returns false. Expects path parameter: id
func ParseAssetID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	return parseInt64Path(w, r, "id", "invalid_asset_id", "Invalid asset ID", logger)
}

// ParseRequestID extracts and validates the mentoring request ID from the
// request path. Expects path parameter: id
func ParseRequestID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	return parseInt64Path(w, r, "id", "invalid_request_id", "Invalid request ID", logger)
}

func parseInt64Path(w http.ResponseWriter, r *http.Request, param, errorCode, message string, logger *zap.Logger) (int64, bool) {
	raw := r.PathValue(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.Debug("Invalid path parameter",
			zap.String("param", param),
			zap.String("value", raw))
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, message); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}

// queryInt64 reads an optional integer query parameter, returning nil when
// absent or malformed.
func queryInt64(r *http.Request, name string) *int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

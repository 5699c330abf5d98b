package handler

import (
	"log"
	"net/http"

	"microblog/internal/common"
)

// respondError converts a service-level error into a response. Storage
// failures are logged in full and reduced to a generic message; client
// errors carry their own text.
func respondError(w http.ResponseWriter, err error) {
	code := common.HTTPStatusFromError(err)
	if code >= http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		common.RespondWithError(w, code, common.ErrInternalServer.Error())
		return
	}
	common.RespondWithError(w, code, err.Error())
}

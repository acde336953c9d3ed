package api

import (
	"net/http"

	"aiso/tripdesk/internal/common"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	common.WriteJSON(w, statusCode, data)
}

func respondWithError(w http.ResponseWriter, err error) {
	common.RespondError(w, err)
}

package app

import (
	"errors"
	"net/http"

	"vinted-listing/internal/llm"
	"vinted-listing/internal/row"
	"vinted-listing/internal/storage"
	"vinted-listing/internal/tenant"
)

const successBody = "Descriptions générées et déposées dans S3."

// Response is what the trigger reports back: a status and a short message.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func failure(err error) Response {
	switch {
	case errors.Is(err, row.ErrInputFormat):
		return Response{StatusCode: http.StatusBadRequest, Body: "Fichier d'entrée invalide : " + err.Error()}
	case errors.Is(err, tenant.ErrConfiguration):
		return Response{StatusCode: http.StatusInternalServerError, Body: "Configuration client invalide : " + err.Error()}
	case errors.Is(err, llm.ErrGeneration):
		return Response{StatusCode: http.StatusBadGateway, Body: "Génération des descriptions impossible : " + err.Error()}
	case errors.Is(err, storage.ErrOutputWrite):
		return Response{StatusCode: http.StatusInternalServerError, Body: "Dépôt du résultat impossible : " + err.Error()}
	default:
		return Response{StatusCode: http.StatusInternalServerError, Body: "Erreur : " + err.Error()}
	}
}

// Package handlers содержит общие функции HTTP ответов.
// Все ответы используют конверт {success, data, message, error, pagination}.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-VenueBookingService/pkg/apperror"
)

const (
	msgInternalError = "Internal server error"

	// maxBodyBytes ограничение размера тела запроса
	maxBodyBytes = 1 << 20
)

// Envelope общий формат ответа API
type Envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

// ErrorBody машиночитаемая часть ошибки
type ErrorBody struct {
	Kind           string `json:"kind"`
	RequiredHours  *int   `json:"required_hours,omitempty"`
	RemainingHours *int   `json:"remaining_hours,omitempty"`
}

// RespondJSON отправляет успешный ответ с данными
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// RespondList отправляет успешный ответ со страницей данных
func RespondList(w http.ResponseWriter, data, pagination interface{}) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: pagination})
}

// RespondError отправляет ошибку, статус определяется по kind из apperror.
// Возвращает отправленный HTTP статус.
func RespondError(w http.ResponseWriter, err error) int {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind == apperror.KindInternal {
		RespondInternalError(w)
		return http.StatusInternalServerError
	}

	status := StatusForKind(appErr.Kind)
	body := &ErrorBody{Kind: string(appErr.Kind)}
	if appErr.HasPolicyPayload() {
		required, remaining := appErr.RequiredHours, appErr.RemainingHours
		body.RequiredHours = &required
		body.RemainingHours = &remaining
	}

	writeJSON(w, status, Envelope{Success: false, Message: appErr.Message, Error: body})
	return status
}

// RespondBadRequest отправляет ошибку валидации запроса
func RespondBadRequest(w http.ResponseWriter, message string) {
	respondKind(w, http.StatusBadRequest, apperror.KindValidation, message)
}

// RespondUnauthorized отправляет ошибку аутентификации
func RespondUnauthorized(w http.ResponseWriter, message string) {
	respondKind(w, http.StatusUnauthorized, apperror.KindUnauthorized, message)
}

// RespondForbidden отправляет ошибку недостаточных прав
func RespondForbidden(w http.ResponseWriter, message string) {
	respondKind(w, http.StatusForbidden, apperror.KindForbidden, message)
}

// RespondMessage отправляет успешный ответ без данных, только с сообщением
func RespondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: true, Message: message})
}

// RespondInternalError отправляет внутреннюю ошибку без подробностей
func RespondInternalError(w http.ResponseWriter) {
	respondKind(w, http.StatusInternalServerError, apperror.KindInternal, msgInternalError)
}

// RespondTooManyRequests отправляет ошибку превышения лимита запросов
func RespondTooManyRequests(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusTooManyRequests, Envelope{Success: false, Message: message})
}

// StatusForKind сопоставляет kind ошибки и HTTP статус
func StatusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindAdvanceNotice, apperror.KindCancellationWindow:
		return http.StatusUnprocessableEntity
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON декодирует тело запроса; неизвестные поля и лишние данные отклоняются
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// ParseID разбирает положительный идентификатор из пути или query
func ParseID(value, name string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return id, nil
}

// ParseOptionalID разбирает необязательный идентификатор; пустая строка дает nil
func ParseOptionalID(value, name string) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	id, err := ParseID(value, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func respondKind(w http.ResponseWriter, status int, kind apperror.Kind, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message, Error: &ErrorBody{Kind: string(kind)}})
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrInvalidResponse возвращается при неожиданном ответе получателя
	ErrInvalidResponse = errors.New("notifier client: invalid response")
)

package slots

import "errors"

var (
	// ErrCache возвращается при ошибке обращения к redis
	ErrCache = errors.New("slots.cache: redis error")

	// ErrDecode возвращается, если закэшированное значение не удалось разобрать
	ErrDecode = errors.New("slots.cache: failed to decode cached availability")
)

package logging

import (
	"time"

	"code.launchcurve.io/launchcurve/libs/num"

	"go.uber.org/zap"
)

// String constructs a field with the given key and value.
func String(key, val string) zap.Field {
	return zap.String(key, val)
}

// Int constructs a field with the given key and value.
func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// Int64 constructs a field with the given key and value.
func Int64(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

// Uint64 constructs a field with the given key and value.
func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// Bool constructs a field with the given key and value.
func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

// Duration constructs a field with the given key and value.
func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}

// Time constructs a field with the given key and value.
func Time(key string, val time.Time) zap.Field {
	return zap.Time(key, val)
}

// Error constructs a field carrying an error.
func Error(err error) zap.Field {
	return zap.Error(err)
}

// BigUint constructs a field with the given key and a 256-bit value,
// rendered in base 10.
func BigUint(key string, val *num.Uint) zap.Field {
	if val == nil {
		return zap.String(key, "nil")
	}
	return zap.String(key, val.String())
}

// Decimal constructs a field with the given key and a decimal value.
func Decimal(key string, val num.Decimal) zap.Field {
	return zap.String(key, val.String())
}

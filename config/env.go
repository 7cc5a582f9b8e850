// Package config resolves pushpipe settings from defaults, a YAML file, a
// .env file and the process environment, in that order.
//
// Environment variable names follow the pattern:
//
//	{Prefix}_{STAGE}_{FIELD}
//
// The stage segment is omitted when the stage is empty. Named nested
// structs add their field name as a segment, embedded structs do not:
//
//	PUSHPIPE_WORKERS=4
//	PUSHPIPE_METRICS_ADDR=:9090
//	PUSHPIPE_RUN_BATCH_CAPACITY=512
//
// Field names are converted from CamelCase to UPPER_SNAKE_CASE unless an
// `env:"NAME"` tag names the segment explicitly. `env:"-"` skips a field.
// Supported field types are string, bool, integers, floats and
// time.Duration; other fields are skipped.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultPrefix is the prefix used by a zero Loader.
const DefaultPrefix = "PUSHPIPE"

var durationType = reflect.TypeFor[time.Duration]()

// Loader overlays environment variables on configuration structs.
type Loader struct {
	// Prefix of every variable name.
	// Default is DefaultPrefix.
	Prefix string

	// lookup replaces os.LookupEnv in tests.
	lookup func(string) (string, bool)
}

// Load sets the fields of the struct dst points to from the environment.
// Fields without a variable keep their value, so Load can be applied on
// top of defaults.
func (l Loader) Load(stage string, dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: dst must be a pointer to a struct, got %T", dst)
	}
	return walk(l.root(stage), v.Elem(), func(key string, fv reflect.Value) error {
		raw, ok := l.lookupEnv(key)
		if !ok {
			return nil
		}
		return set(fv, raw, key)
	})
}

// Keys lists the variable names Load checks for dst, which may be a struct
// or a pointer to one.
func (l Loader) Keys(stage string, dst any) []string {
	v := reflect.ValueOf(dst)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	_ = walk(l.root(stage), v, func(key string, _ reflect.Value) error {
		keys = append(keys, key)
		return nil
	})
	return keys
}

func (l Loader) root(stage string) string {
	prefix := l.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if s := normalizeStage(stage); s != "" {
		return prefix + "_" + s
	}
	return prefix
}

func (l Loader) lookupEnv(key string) (string, bool) {
	if l.lookup != nil {
		return l.lookup(key)
	}
	return os.LookupEnv(key)
}

// walk calls leaf for every supported field of v with its variable name.
func walk(prefix string, v reflect.Value, leaf func(key string, fv reflect.Value) error) error {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		fv := v.Field(i)

		// Promoted fields of unexported embedded structs still count.
		if !field.IsExported() && !(field.Anonymous && field.Type.Kind() == reflect.Struct) {
			continue
		}

		name, ok := segment(field)
		if !ok {
			continue
		}
		key := prefix
		if name != "" {
			key = prefix + "_" + name
		}

		switch {
		case field.Type == durationType || isScalar(field.Type.Kind()):
			if err := leaf(key, fv); err != nil {
				return err
			}
		case field.Type.Kind() == reflect.Struct:
			if err := walk(key, fv, leaf); err != nil {
				return err
			}
		}
	}
	return nil
}

// segment returns the name a field contributes to a variable name. Embedded
// structs contribute nothing; ok is false for skipped fields.
func segment(field reflect.StructField) (name string, ok bool) {
	switch tag := field.Tag.Get("env"); {
	case tag == "-":
		return "", false
	case tag != "":
		return tag, true
	case field.Anonymous:
		return "", true
	default:
		return toUpperSnake(field.Name), true
	}
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func set(v reflect.Value, raw, key string) error {
	var err error
	switch {
	case v.Type() == durationType:
		var d time.Duration
		if d, err = time.ParseDuration(raw); err == nil {
			v.SetInt(int64(d))
		}
	case v.Kind() == reflect.String:
		v.SetString(raw)
	case v.Kind() == reflect.Bool:
		var b bool
		if b, err = strconv.ParseBool(raw); err == nil {
			v.SetBool(b)
		}
	case v.CanInt():
		var n int64
		if n, err = strconv.ParseInt(raw, 10, v.Type().Bits()); err == nil {
			v.SetInt(n)
		}
	case v.CanUint():
		var n uint64
		if n, err = strconv.ParseUint(raw, 10, v.Type().Bits()); err == nil {
			v.SetUint(n)
		}
	case v.CanFloat():
		var f float64
		if f, err = strconv.ParseFloat(raw, v.Type().Bits()); err == nil {
			v.SetFloat(f)
		}
	}
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	return nil
}

// normalizeStage uppercases letters, maps '-', ' ' and '_' to '_' and drops
// everything else.
func normalizeStage(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(unicode.ToUpper(r))
		case r == '-' || r == ' ' || r == '_':
			b.WriteByte('_')
		}
	}
	return b.String()
}

// toUpperSnake converts CamelCase to UPPER_SNAKE_CASE, keeping acronyms
// together: BatchCapacity is BATCH_CAPACITY, HTTPAddr is HTTP_ADDR.
func toUpperSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

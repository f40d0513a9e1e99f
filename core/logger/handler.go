package logger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

type handlerConfig struct {
	level    slog.Leveler
	writer   *asyncWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders every record as one flat line: known keys first in
// keyOrder, the rest sorted. Groups become dotted key prefixes.
type structuredHandler struct {
	cfg    handlerConfig
	attrs  []slog.Attr
	prefix string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = slices.Clone(defaultKeyOrder)
	}
	return &structuredHandler{cfg: cfg}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(slices.Clone(h.attrs), h.grouped(attrs)...)
	return &clone
}

func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = dotted(h.prefix, name)
	return &clone
}

// grouped moves attrs under the current group prefix so later groups do not
// rename them.
func (h *structuredHandler) grouped(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: dotted(h.prefix, a.Key), Value: a.Value}
	}
	return out
}

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return errors.New("logger: writer not initialized")
	}
	f := h.collect(ctx, r)

	var (
		line []byte
		err  error
	)
	if h.cfg.format == formatJSON {
		line, err = appendJSON(nil, f, h.cfg.keyOrder)
		if err != nil {
			return err
		}
	} else {
		line = appendKV(nil, f, h.cfg.keyOrder)
	}
	return h.cfg.writer.Write(append(line, '\n'))
}

func (h *structuredHandler) collect(ctx context.Context, r slog.Record) fields {
	asJSON := h.cfg.format == formatJSON
	ts := r.Time.UTC()

	f := make(fields, 16)
	f["ts"] = ts.Truncate(time.Millisecond).Format(timeFormatMillis)
	f["level"] = r.Level.String()
	if asJSON {
		f["ts_unix_nano"] = ts.UnixNano()
	}
	for _, a := range h.attrs {
		f.add("", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		f.add(h.prefix, a)
		return true
	})

	meta := metaFrom(ctx)
	f.fill("rid", meta.rid, meta.rid != "")
	f.fill("update_id", meta.updateID, meta.updateID != 0)
	f.fill("user_id", meta.userID, meta.userID != 0)
	f.fill("chat_id", meta.chatID, meta.chatID != 0)
	f.fill("handler", meta.handler, meta.handler != "")

	// Text lines carry the short rid only; JSON keeps the full one too.
	if rid := f.str("rid"); rid != "" {
		if short := CompactRID(rid); short != rid {
			if asJSON {
				f.fill("rid_full", rid, true)
			}
			f["rid"] = short
		}
	}
	event := r.Message
	if event == "" {
		event = "unknown"
	}
	f.fill("event", event, f.str("event") == "")
	f.fill("component", defaultComponent, f.str("component") == "")

	f.normalize()
	return f
}

// fields is one record flattened to scalar values.
type fields map[string]any

func (f fields) add(prefix string, a slog.Attr) {
	key := a.Key
	if prefix != "" {
		key = dotted(prefix, key)
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, child := range v.Group() {
			f.add(key, child)
		}
		return
	}
	if key == "" {
		return
	}
	if v.Kind() == slog.KindDuration {
		f[msKey(key)] = RoundMS(v.Duration()).Milliseconds()
		return
	}
	if d, ok := v.Any().(time.Duration); ok && v.Kind() == slog.KindAny {
		f[msKey(key)] = RoundMS(d).Milliseconds()
		return
	}
	if val, ok := scalar(v); ok {
		f[key] = val
	}
}

// fill sets key when cond holds and the record has no value for it yet.
func (f fields) fill(key string, val any, cond bool) {
	if !cond {
		return
	}
	if cur, ok := f[key]; !ok || cur == "" {
		f[key] = val
	}
}

func (f fields) str(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// normalize fixes the casing of enumerations, drops unknown outcomes and
// removes empty values.
func (f fields) normalize() {
	f["level"] = normalizeLevel(f.str("level"))
	if s := f.str("status"); s != "" {
		f["status"], _ = normalizeEnum(knownStatus, s)
	}
	if o := f.str("outcome"); o != "" {
		if v, ok := normalizeEnum(knownOutcome, o); ok {
			f["outcome"] = v
		} else {
			delete(f, "outcome")
		}
	}
	for k, v := range f {
		if v == nil || v == "" {
			delete(f, k)
		}
	}
}

// keys lists the record keys: those named in order first, then the rest sorted.
func (f fields) keys(order []string) []string {
	out := make([]string, 0, len(f))
	for _, k := range order {
		if _, ok := f[k]; ok {
			out = append(out, k)
		}
	}
	head := len(out)
	for k := range f {
		if !slices.Contains(out[:head], k) {
			out = append(out, k)
		}
	}
	slices.Sort(out[head:])
	return out
}

func scalar(v slog.Value) (any, bool) {
	switch v.Kind() {
	case slog.KindString:
		return strings.TrimSpace(v.String()), true
	case slog.KindBool:
		return v.Bool(), true
	case slog.KindInt64:
		return v.Int64(), true
	case slog.KindUint64:
		if u := v.Uint64(); u <= math.MaxInt64 {
			return int64(u), true
		}
		return v.Uint64(), true
	case slog.KindFloat64:
		return v.Float64(), true
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := v.Any().(type) {
	case nil:
		return nil, false
	case error:
		return x.Error(), true
	case string:
		return strings.TrimSpace(x), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}

// msKey names a duration field: "duration" -> "duration_ms", "backoff" -> "backoff_ms".
func msKey(key string) string {
	if strings.HasSuffix(key, "_ms") {
		return key
	}
	return key + "_ms"
}

func dotted(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	}
	return prefix + "." + key
}

func appendJSON(dst []byte, f fields, order []string) ([]byte, error) {
	dst = append(dst, '{')
	for i, k := range f.keys(order) {
		val, err := json.Marshal(f[k])
		if err != nil {
			return nil, fmt.Errorf("logger: encode %q: %w", k, err)
		}
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = strconv.AppendQuote(dst, k)
		dst = append(dst, ':')
		dst = append(dst, val...)
	}
	return append(dst, '}'), nil
}

func appendKV(dst []byte, f fields, order []string) []byte {
	for i, k := range f.keys(order) {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = append(dst, k...)
		dst = append(dst, '=')
		dst = appendKVValue(dst, f[k])
	}
	return dst
}

func appendKVValue(dst []byte, v any) []byte {
	switch x := v.(type) {
	case bool:
		return strconv.AppendBool(dst, x)
	case int64:
		return strconv.AppendInt(dst, x, 10)
	case uint64:
		return strconv.AppendUint(dst, x, 10)
	case float64:
		return strconv.AppendFloat(dst, x, 'g', -1, 64)
	}
	s := fmt.Sprint(v)
	if strings.ContainsFunc(s, needsQuote) {
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, s...)
}

func needsQuote(r rune) bool {
	return r <= ' ' || r == '=' || r == '"'
}

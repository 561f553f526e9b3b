package envfile

import (
	"HelpdeskAdmin/internal/logger"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
)

// ErrInvalidKey is returned for variable names outside [A-Z0-9_].
var ErrInvalidKey = errors.New("invalid variable name")

var keyPattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

const defaultLockRetry = 20 * time.Millisecond

// Entry is one KEY=VALUE pair to be written.
type Entry struct {
	Key   string
	Value string
}

// IOError reports a failure to read, write or lock the env file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s env file %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Store owns all access to one env file.
type Store struct {
	path      string
	lockPath  string
	lockRetry time.Duration
}

// New returns a Store for the env file at path. The file is expected to exist.
func New(path string) *Store {
	return &Store{
		path:      path,
		lockPath:  path + ".lock",
		lockRetry: defaultLockRetry,
	}
}

// Path returns the env file location.
func (s *Store) Path() string {
	return s.path
}

// ValidateKey checks that key looks like a configuration identifier.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// EscapeValue turns every newline into the two characters `\n` so the value fits on one line.
func EscapeValue(value string) string {
	return strings.ReplaceAll(value, "\n", `\n`)
}

// Render returns content with KEY=value set. Only the first line matching
// ^KEY=.*$ is replaced; later duplicates are kept as they are. When no line
// matches, "\nKEY=value" is appended.
func Render(content, key, value string) string {
	line := key + "=" + EscapeValue(value)

	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(key) + `=.*$`)
	loc := re.FindStringIndex(content)
	if loc == nil {
		return content + "\n" + line
	}

	// Keep the carriage return of CRLF files
	if strings.HasSuffix(content[loc[0]:loc[1]], "\r") {
		line += "\r"
	}
	return content[:loc[0]] + line + content[loc[1]:]
}

// Upsert ensures the file holds exactly one leading KEY=value line for key.
func (s *Store) Upsert(ctx context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	content, mode, err := s.read()
	if err != nil {
		return err
	}

	if err := s.write(Render(content, key, value), mode); err != nil {
		return err
	}

	logger.Debug(ctx, "Set %s in %s", key, s.path)
	return nil
}

// UpsertMany applies Upsert to each entry in order. It stops at the first
// failure and returns the keys that were written before it.
func (s *Store) UpsertMany(ctx context.Context, entries []Entry) ([]string, error) {
	written := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := s.Upsert(ctx, e.Key, e.Value); err != nil {
			return written, fmt.Errorf("set %s: %w", e.Key, err)
		}
		written = append(written, e.Key)
	}
	return written, nil
}

// Ordered builds entries from values following the key order given.
// Keys absent from values are skipped.
func Ordered(values map[string]string, order []string) []Entry {
	entries := make([]Entry, 0, len(order))
	for _, key := range order {
		if v, ok := values[key]; ok {
			entries = append(entries, Entry{Key: key, Value: v})
		}
	}
	return entries
}

// Values parses the file with godotenv. Lines godotenv rejects are skipped,
// and a key written more than once resolves to its first line, the one
// Upsert rewrites. A missing file yields an empty map.
func (s *Store) Values() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	values, err := Parse(string(data))
	if err != nil {
		return nil, &IOError{Op: "parse", Path: s.path, Err: err}
	}
	return values, nil
}

// Parse reads env content line by line. Free-form lines are ignored and only
// the first assignment of each key is kept.
func Parse(content string) (map[string]string, error) {
	seen := make(map[string]bool)
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		parsed, err := godotenv.Unmarshal(line)
		if err != nil || len(parsed) != 1 {
			continue
		}
		var key string
		for k := range parsed {
			key = k
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, line)
	}
	// One pass over the kept lines lets ${VAR} refer to earlier keys.
	return godotenv.Unmarshal(strings.Join(kept, "\n"))
}

// Blank reports whether an env value counts as unset: empty, whitespace or
// "0", the values the helpdesk's own empty() check treats as missing.
func Blank(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || v == "0"
}

// Get returns the value of key, or "" when it is not set.
func (s *Store) Get(key string) (string, error) {
	values, err := s.Values()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// GetDefault returns the value of key, or def when it is Blank.
func (s *Store) GetDefault(key, def string) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	if Blank(v) {
		return def, nil
	}
	return v, nil
}

// Missing returns the keys that are absent or Blank, in the order given.
func (s *Store) Missing(keys ...string) ([]string, error) {
	values, err := s.Values()
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, key := range keys {
		if Blank(values[key]) {
			missing = append(missing, key)
		}
	}
	return missing, nil
}

func (s *Store) lock(ctx context.Context) (func(), error) {
	fl := flock.New(s.lockPath)
	locked, err := fl.TryLockContext(ctx, s.lockRetry)
	if err != nil {
		return nil, &IOError{Op: "lock", Path: s.path, Err: err}
	}
	if !locked {
		return nil, &IOError{Op: "lock", Path: s.path, Err: errors.New("lock not acquired")}
	}
	return func() { _ = fl.Unlock() }, nil
}

func (s *Store) read() (string, fs.FileMode, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", 0, &IOError{Op: "read", Path: s.path, Err: err}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", 0, &IOError{Op: "read", Path: s.path, Err: err}
	}
	return string(data), info.Mode().Perm(), nil
}

func (s *Store) write(content string, mode fs.FileMode) error {
	if err := os.WriteFile(s.path, []byte(content), mode); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

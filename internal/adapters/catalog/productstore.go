package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// Defaults for FileStoreConfig.
const (
	DefaultBackupRetention = 7 * 24 * time.Hour
	DefaultLockStale       = 30 * time.Second
)

const (
	backupPrefix = "products_"
	backupLayout = "20060102_150405"
)

// FileStore keeps supplier products in a single JSON file. Mutations are
// serialized in-process by a mutex and across processes by a lock file next
// to the database.
type FileStore struct {
	path      string
	backupDir string
	retention time.Duration
	lockStale time.Duration
	validate  *validator.Validate
	now       func() time.Time
	logger    *slog.Logger

	mu sync.Mutex
}

// FileStoreConfig configures a FileStore.
type FileStoreConfig struct {
	// Path is the products JSON file.
	Path string

	// BackupDir defaults to a "backups" directory next to Path.
	BackupDir string
	Retention time.Duration
	LockStale time.Duration
	Now       func() time.Time
	Logger    *slog.Logger
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// NewFileStore creates a product store. The file need not exist yet.
func NewFileStore(cfg FileStoreConfig) *FileStore {
	if cfg.Path == "" {
		panic("file store requires a path")
	}

	backupDir := cfg.BackupDir
	if backupDir == "" {
		backupDir = filepath.Join(filepath.Dir(cfg.Path), "backups")
	}

	retention := cfg.Retention
	if retention <= 0 {
		retention = DefaultBackupRetention
	}

	lockStale := cfg.LockStale
	if lockStale <= 0 {
		lockStale = DefaultLockStale
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FileStore{
		path:      cfg.Path,
		backupDir: backupDir,
		retention: retention,
		lockStale: lockStale,
		validate:  newProductValidator(),
		now:       now,
		logger:    logger.With(slog.String("component", "catalog.FileStore")),
	}
}

// Path returns the products file location.
func (s *FileStore) Path() string { return s.path }

func newProductValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate checks every product and reports the first failing record with
// all of its failing fields.
func (s *FileStore) Validate(products []domain.Product) error {
	for i, p := range products {
		err := s.validate.Struct(p)
		if err == nil {
			continue
		}

		record := p.ProductID
		if record == "" {
			record = "index_" + strconv.Itoa(i)
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating product %s: %w", record, err)
		}

		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = describe(fe)
		}

		return &domain.RecordValidationError{Record: record, Fields: fields}
	}

	return nil
}

// fieldPath drops the struct name from the namespace: pricing[0].price_aed.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}

	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "len":
		return "must be " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// Load reads all products. A missing file is an empty store.
func (s *FileStore) Load(_ context.Context) ([]domain.Product, error) {
	return s.read()
}

func (s *FileStore) read() ([]domain.Product, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Product{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return []domain.Product{}, nil
	}

	var products []domain.Product

	err = json.Unmarshal(data, &products)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}

	return products, nil
}

// Upsert validates the batch, then replaces products by product_id and
// appends new ones. Existing products keep their position. Within the batch
// the last occurrence of an id wins.
func (s *FileStore) Upsert(ctx context.Context, products []domain.Product) (int, error) {
	err := s.Validate(products)
	if err != nil {
		return 0, err
	}

	err = s.mutate(ctx, "upsert", func(existing []domain.Product) ([]domain.Product, error) {
		return upsert(existing, products), nil
	})
	if err != nil {
		return 0, err
	}

	return len(products), nil
}

func upsert(existing, batch []domain.Product) []domain.Product {
	out := make([]domain.Product, len(existing), len(existing)+len(batch))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, p := range out {
		index[p.ProductID] = i
	}

	for _, p := range batch {
		p = p.Normalize()

		if i, ok := index[p.ProductID]; ok {
			out[i] = p
			continue
		}

		index[p.ProductID] = len(out)
		out = append(out, p)
	}

	return out
}

// Nuke backs up the store and empties it.
func (s *FileStore) Nuke(ctx context.Context) error {
	return s.mutate(ctx, "nuke", func([]domain.Product) ([]domain.Product, error) {
		return []domain.Product{}, nil
	})
}

// mutate runs fn under both locks: backup, read, apply, atomic write, prune.
func (s *FileStore) mutate(
	ctx context.Context,
	op string,
	fn func([]domain.Product) ([]domain.Product, error),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer unlock()

	backup, err := s.backup()
	if err != nil {
		return err
	}

	existing, err := s.read()
	if err != nil {
		return err
	}

	next, err := fn(existing)
	if err != nil {
		return err
	}

	err = s.write(next)
	if err != nil {
		return err
	}

	removed, err := s.cleanup()
	if err != nil {
		s.logger.WarnContext(ctx, "backup cleanup failed", slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "product store updated",
		slog.String("operation", op),
		slog.Int("products", len(next)),
		slog.String("backup", backup),
		slog.Int("backups_removed", removed),
	)

	return nil
}

func (s *FileStore) lockPath() string { return s.path + ".lock" }

// acquireLock creates the lock file exclusively. A lock older than the stale
// threshold is left over from a crashed writer and is removed.
func (s *FileStore) acquireLock() (func(), error) {
	err := os.MkdirAll(filepath.Dir(s.path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	lock := s.lockPath()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(lock, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
			_ = f.Close()

			return func() { _ = os.Remove(lock) }, nil
		}

		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("creating lock: %w", err)
		}

		info, statErr := os.Stat(lock)
		if statErr != nil {
			continue
		}

		age := s.now().Sub(info.ModTime())
		if age < s.lockStale {
			return nil, domain.NewConflictError("product store", "locked by another writer")
		}

		s.logger.Warn("removing stale lock", slog.String("lock", lock), slog.Duration("age", age))

		_ = os.Remove(lock)
	}

	return nil, domain.NewConflictError("product store", "could not acquire lock")
}

// write replaces the file atomically: temp file in the same directory,
// fsync, rename.
func (s *FileStore) write(products []domain.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding products: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".products-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	name := tmp.Name()

	_, err = tmp.Write(append(data, '\n'))
	if err == nil {
		err = tmp.Sync()
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("writing temp file: %w", err)
	}

	err = os.Rename(name, s.path)
	if err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("replacing products file: %w", err)
	}

	return nil
}

// Backup copies the products file into the backup directory.
func (s *FileStore) Backup(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.backup()
	if err != nil {
		return "", err
	}

	if path == "" {
		return "", domain.NewNotFoundError("product store", s.path)
	}

	return path, nil
}

// backup returns "" when there is nothing to back up yet.
func (s *FileStore) backup() (string, error) {
	src, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("opening products for backup: %w", err)
	}
	defer src.Close()

	err = os.MkdirAll(s.backupDir, 0o755)
	if err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	dst := filepath.Join(s.backupDir, backupPrefix+s.now().Format(backupLayout)+".json")

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating backup: %w", err)
	}

	_, err = io.Copy(out, src)

	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		return "", fmt.Errorf("copying backup: %w", err)
	}

	return dst, nil
}

// ListBackups returns the backups, newest first.
func (s *FileStore) ListBackups(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}

	out := make([]BackupInfo, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		out = append(out, BackupInfo{
			Path:    filepath.Join(s.backupDir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })

	return out, nil
}

// CleanupBackups deletes backups older than the retention period.
func (s *FileStore) CleanupBackups(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cleanup()
}

func (s *FileStore) cleanup() (int, error) {
	backups, err := s.ListBackups(context.Background())
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.retention)
	removed := 0

	var errs []error

	for _, b := range backups {
		if !b.ModTime.Before(cutoff) {
			continue
		}

		err := os.Remove(b.Path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}

		removed++
	}

	return removed, errors.Join(errs...)
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, ".json")
}

// Stats summarises the store.
func (s *FileStore) Stats(ctx context.Context) (*ports.ProductStats, error) {
	products, err := s.read()
	if err != nil {
		return nil, err
	}

	stats := &ports.ProductStats{
		Total:         len(products),
		ByCategory:    map[string]int{},
		ByDestination: map[string]int{},
		BySupplier:    map[string]int{},
	}

	for _, p := range products {
		if p.IsActive() {
			stats.Active++
		} else {
			stats.Inactive++
		}

		stats.ByCategory[orUnknown(p.Category)]++
		stats.ByDestination[orUnknown(p.DestinationCity)]++
		stats.BySupplier[orUnknown(p.SupplierName)]++
	}

	info, err := os.Stat(s.path)
	if err == nil {
		stats.LastUpdated = info.ModTime()
		stats.SizeBytes = info.Size()
	}

	backups, err := s.ListBackups(ctx)
	if err != nil {
		return nil, err
	}

	stats.Backups = len(backups)

	return stats, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}

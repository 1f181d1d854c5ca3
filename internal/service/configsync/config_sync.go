// Package configsync keeps the entities declared as JSON files in a config
// directory in lockstep with the database. Files are the source of truth for
// the entities they declare: adding a file creates the entity, editing it
// updates the entity, removing it deletes the entity.
package configsync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/crud"
	"github.com/SreeGowri/webutils/internal/service/user"
	"github.com/SreeGowri/webutils/pkg/logger"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/fsnotify/fsnotify"
	"gorm.io/gorm"
)

const (
	entityUser     = "user"
	entityEmployee = "employee"
)

// Options configures config directory synchronization.
type Options struct {
	Enabled bool
	Dir     string
}

// Services are the collaborators sync writes through. All mutations go via
// the services so audit bookkeeping stays consistent with API writes.
type Services struct {
	DB              *gorm.DB
	UserService     *user.Service
	EmployeeService *crud.Service[model.Employee, *model.Employee]
}

type Service struct {
	opts     Options
	services Services
	log      logger.Logger

	resolvedDir string

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(opts Options, services Services, log logger.Logger) (*Service, error) {
	if services.DB == nil || services.UserService == nil || services.EmployeeService == nil {
		return nil, fmt.Errorf("config sync requires DB, user service and employee service")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if !opts.Enabled {
		return &Service{opts: opts, services: services, log: log}, nil
	}
	resolved, err := resolveConfigDir(opts.Dir)
	if err != nil {
		return nil, err
	}
	return &Service{opts: opts, services: services, log: log, resolvedDir: resolved}, nil
}

func resolveConfigDir(dir string) (string, error) {
	target := strings.TrimSpace(dir)
	if target == "" {
		target = "~/" + types.DefaultConfigSyncDirName
	}
	if strings.HasPrefix(target, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if target == "~" {
			target = home
		} else if strings.HasPrefix(target, "~/") {
			target = filepath.Join(home, target[2:])
		}
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

func (s *Service) Start(ctx context.Context) error {
	if !s.opts.Enabled {
		return nil
	}
	if err := ensureSubDirs(s.resolvedDir); err != nil {
		return err
	}
	if err := s.Reconcile(ctx); err != nil {
		return fmt.Errorf("initial config reconciliation failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	s.watcher = watcher
	for _, d := range []string{
		s.resolvedDir,
		filepath.Join(s.resolvedDir, types.ConfigSyncUsersDirName),
		filepath.Join(s.resolvedDir, types.ConfigSyncEmployeesDirName),
	} {
		if err := watcher.Add(d); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.watchLoop(watchCtx)
	return nil
}

func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
}

func (s *Service) watchLoop(ctx context.Context) {
	defer s.wg.Done()
	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("config watcher error", logger.Field{Key: "error", Value: err.Error()})
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !isRelevantEvent(ev) {
				continue
			}
			pending = true
			debounce.Reset(300 * time.Millisecond)
		case <-debounce.C:
			if pending {
				if err := s.Reconcile(context.Background()); err != nil {
					s.log.Warn("reconcile failed after file changes", logger.Field{Key: "error", Value: err.Error()})
				}
				pending = false
			}
		}
	}
}

func isRelevantEvent(ev fsnotify.Event) bool {
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func ensureSubDirs(root string) error {
	for _, sub := range []string{types.ConfigSyncUsersDirName, types.ConfigSyncEmployeesDirName} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return fmt.Errorf("failed to create config subdirectory %s: %w", sub, err)
		}
	}
	return nil
}

// Reconcile applies every declared config file and prunes entities whose file
// disappeared. Per-file failures are collected, not fatal, so one bad file
// never blocks the rest of the directory.
func (s *Service) Reconcile(ctx context.Context) error {
	var errs []error
	if err := s.reconcileUsers(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.reconcileEmployees(ctx); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		for _, err := range errs {
			s.log.Warn("config sync error", logger.Field{Key: "error", Value: err.Error()})
		}
		return errors.Join(errs...)
	}
	return nil
}

type desiredFile[T any] struct {
	entity   T
	name     string
	path     string
	hash     string
}

// loadDesired reads every JSON file in dir and keys it by entity name.
// Unreadable, invalid or conflicting files are reported and marked blocked so
// the pruning pass never deletes an entity because its file failed to parse.
func loadDesired[T any](dir string, nameFn func(T) string) (map[string]desiredFile[T], map[string]bool, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, []error{fmt.Errorf("failed to read directory %s: %w", dir, err)}
	}
	result := map[string]desiredFile[T]{}
	blocked := map[string]bool{}
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		full := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(full)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read config file %s: %w", full, err))
			blocked[full] = true
			continue
		}
		var conf T
		if err := json.Unmarshal(raw, &conf); err != nil {
			errs = append(errs, fmt.Errorf("invalid JSON in %s: %w", full, err))
			blocked[full] = true
			continue
		}
		name := strings.TrimSpace(nameFn(conf))
		if name == "" {
			errs = append(errs, fmt.Errorf("config file %s does not define a valid name", full))
			blocked[full] = true
			continue
		}
		if existing, ok := result[name]; ok {
			errs = append(errs, fmt.Errorf("conflict: duplicate %s defined by %s and %s", name, existing.path, full))
			blocked[full] = true
			blocked[existing.path] = true
			continue
		}
		h := sha256.Sum256(raw)
		result[name] = desiredFile[T]{
			entity: conf,
			name:   name,
			path:   full,
			hash:   hex.EncodeToString(h[:]),
		}
	}
	return result, blocked, errs
}

func (s *Service) loadManaged(entityType string) (map[string]model.ManagedConfigFile, error) {
	var rows []model.ManagedConfigFile
	if err := s.services.DB.Where("entity_type = ?", entityType).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]model.ManagedConfigFile, len(rows))
	for _, r := range rows {
		out[r.EntityName] = r
	}
	return out, nil
}

func (s *Service) createOrUpdateManagedRow(entityType, name, path, hash string) error {
	var row model.ManagedConfigFile
	err := s.services.DB.Where("entity_type = ? AND entity_name = ?", entityType, name).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.services.DB.Create(&model.ManagedConfigFile{
			EntityType: entityType,
			EntityName: name,
			FilePath:   path,
			FileHash:   hash,
		}).Error
	}
	row.FilePath = path
	row.FileHash = hash
	return s.services.DB.Save(&row).Error
}

func (s *Service) deleteManagedRow(entityType, name string) error {
	return s.services.DB.Unscoped().Where("entity_type = ? AND entity_name = ?", entityType, name).Delete(&model.ManagedConfigFile{}).Error
}

func (s *Service) reconcileUsers(ctx context.Context) error {
	dir := filepath.Join(s.resolvedDir, types.ConfigSyncUsersDirName)
	desired, blocked, parseErrs := loadDesired[types.UserConfig](dir, func(c types.UserConfig) string { return c.Username })
	managed, err := s.loadManaged(entityUser)
	if err != nil {
		return fmt.Errorf("failed to load tracked user configs: %w", err)
	}
	var errs []error
	errs = append(errs, parseErrs...)

	for name, d := range desired {
		if d.entity.Password == "" {
			errs = append(errs, fmt.Errorf("user config %s must provide a password", d.path))
			continue
		}

		var existing model.User
		getErr := s.services.DB.Where("username = ? AND deleted = ?", name, false).First(&existing).Error
		if getErr != nil && !errors.Is(getErr, gorm.ErrRecordNotFound) {
			errs = append(errs, fmt.Errorf("failed to fetch user %s: %w", name, getErr))
			continue
		}

		if errors.Is(getErr, gorm.ErrRecordNotFound) {
			req := &types.CreateUserRequest{
				Username:    name,
				Password:    d.entity.Password,
				DisplayName: d.entity.DisplayName,
				Roles:       d.entity.Roles,
			}
			if _, err := s.services.UserService.Create(ctx, req, "", nil, 0); err != nil {
				errs = append(errs, fmt.Errorf("failed to create user %s from %s: %w", name, d.path, err))
				continue
			}
			if err := s.createOrUpdateManagedRow(entityUser, name, d.path, d.hash); err != nil {
				errs = append(errs, fmt.Errorf("failed to track user %s: %w", name, err))
			}
			continue
		}

		if slices.Contains(existing.RoleSet(), types.UserRoleAdmin) {
			errs = append(errs, fmt.Errorf("config sync cannot manage admin user %s (file: %s)", name, d.path))
			continue
		}

		track, tracked := managed[name]
		if tracked && track.FileHash == d.hash {
			continue
		}
		if err := s.services.UserService.UpdateFromConfig(ctx, &existing, &d.entity, 0); err != nil {
			errs = append(errs, fmt.Errorf("failed to update user %s from %s: %w", name, d.path, err))
			continue
		}
		if err := s.createOrUpdateManagedRow(entityUser, name, d.path, d.hash); err != nil {
			errs = append(errs, fmt.Errorf("failed to track user %s: %w", name, err))
		}
	}

	for name, trackedRow := range managed {
		if _, ok := desired[name]; ok {
			continue
		}
		if blocked[trackedRow.FilePath] || fileExists(trackedRow.FilePath) {
			continue
		}
		var u model.User
		if err := s.services.DB.Where("username = ? AND deleted = ?", name, false).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				_ = s.deleteManagedRow(entityUser, name)
				continue
			}
			errs = append(errs, fmt.Errorf("failed to fetch managed user %s during deletion: %w", name, err))
			continue
		}
		if slices.Contains(u.RoleSet(), types.UserRoleAdmin) {
			errs = append(errs, fmt.Errorf("config sync cannot delete admin user %s", name))
			continue
		}
		if err := s.services.UserService.SoftDelete(ctx, u.ID, 0); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete managed user %s after file removal: %w", name, err))
			continue
		}
		if err := s.deleteManagedRow(entityUser, name); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove tracking for user %s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) reconcileEmployees(ctx context.Context) error {
	dir := filepath.Join(s.resolvedDir, types.ConfigSyncEmployeesDirName)
	desired, blocked, parseErrs := loadDesired[types.EmployeeConfig](dir, func(c types.EmployeeConfig) string { return c.Name })
	managed, err := s.loadManaged(entityEmployee)
	if err != nil {
		return fmt.Errorf("failed to load tracked employee configs: %w", err)
	}
	var errs []error
	errs = append(errs, parseErrs...)

	for name, d := range desired {
		var existing model.Employee
		getErr := s.services.DB.Where("name = ?", name).First(&existing).Error
		if getErr != nil && !errors.Is(getErr, gorm.ErrRecordNotFound) {
			errs = append(errs, fmt.Errorf("failed to fetch employee %s: %w", name, getErr))
			continue
		}

		if errors.Is(getErr, gorm.ErrRecordNotFound) {
			emp := &model.Employee{Name: d.entity.Name, Salary: d.entity.Salary}
			if _, err := s.services.EmployeeService.Save(ctx, emp, 0); err != nil {
				errs = append(errs, fmt.Errorf("failed to create employee %s from %s: %w", name, d.path, err))
				continue
			}
			if err := s.createOrUpdateManagedRow(entityEmployee, name, d.path, d.hash); err != nil {
				errs = append(errs, fmt.Errorf("failed to track employee %s: %w", name, err))
			}
			continue
		}

		track, tracked := managed[name]
		if tracked && track.FileHash == d.hash {
			continue
		}
		if existing.Salary != d.entity.Salary {
			existing.Salary = d.entity.Salary
			if _, err := s.services.EmployeeService.Save(ctx, &existing, 0); err != nil {
				errs = append(errs, fmt.Errorf("failed to update employee %s from %s: %w", name, d.path, err))
				continue
			}
		}
		if err := s.createOrUpdateManagedRow(entityEmployee, name, d.path, d.hash); err != nil {
			errs = append(errs, fmt.Errorf("failed to track employee %s: %w", name, err))
		}
	}

	for name, trackedRow := range managed {
		if _, ok := desired[name]; ok {
			continue
		}
		if blocked[trackedRow.FilePath] || fileExists(trackedRow.FilePath) {
			continue
		}
		var emp model.Employee
		if err := s.services.DB.Where("name = ?", name).First(&emp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				_ = s.deleteManagedRow(entityEmployee, name)
				continue
			}
			errs = append(errs, fmt.Errorf("failed to fetch managed employee %s during deletion: %w", name, err))
			continue
		}
		if err := s.services.EmployeeService.DeleteByID(ctx, emp.ID); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete managed employee %s after file removal: %w", name, err))
			continue
		}
		if err := s.deleteManagedRow(entityEmployee, name); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove tracking for employee %s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func fileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

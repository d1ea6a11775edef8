package study

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/KaramelBytes/voltrack-cli/internal/dashboard"
	"github.com/KaramelBytes/voltrack-cli/internal/logging"
	"github.com/KaramelBytes/voltrack-cli/internal/table"
	"github.com/KaramelBytes/voltrack-cli/internal/utils"
)

// FileName is the manifest name inside a study directory.
const FileName = "study.json"

// ErrUnknownRole is returned when attaching a file to a role that does not exist.
var ErrUnknownRole = errors.New("unknown dataset role")

// Study remembers which file fills each dataset role.
type Study struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Datasets    map[string]*DatasetRef `json:"datasets"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`

	// Not serialized: on-disk location of the study.json
	rootDir string `json:"-"`
}

// New constructs an in-memory study. Call Save() to persist.
func New(name, description, rootDir string) *Study {
	return &Study{
		Name:        name,
		Description: description,
		Datasets:    make(map[string]*DatasetRef),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// Load reads study.json from the provided directory.
func Load(dir string) (*Study, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("study not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read study: %w", err)
	}
	var s Study
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse study: %w", err)
	}
	if s.Datasets == nil {
		s.Datasets = make(map[string]*DatasetRef)
	}
	s.rootDir = dir
	return &s, nil
}

// RootDir returns the on-disk study directory path.
func (s *Study) RootDir() string { return s.rootDir }

// Save writes study.json using atomic write.
func (s *Study) Save() error {
	if s.rootDir == "" {
		return errors.New("study root directory not set")
	}
	s.UpdatedAt = time.Now()
	return utils.WriteJSON(filepath.Join(s.rootDir, FileName), s)
}

// Attach assigns a file to a dataset role, replacing any previous file. The
// file must be loadable.
func (s *Study) Attach(role, path, sheetName string, sheetIndex int) (*DatasetRef, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !validRole(role) {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownRole, role, strings.Join(dashboard.Roles, ", "))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	if !table.Supported(abs) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(abs), table.ErrUnsupported)
	}
	ref := &DatasetRef{
		ID:         uuid.NewString(),
		Role:       role,
		Path:       abs,
		SheetName:  sheetName,
		SheetIndex: sheetIndex,
		AddedAt:    time.Now(),
	}
	if s.Datasets == nil {
		s.Datasets = make(map[string]*DatasetRef)
	}
	s.Datasets[role] = ref
	s.UpdatedAt = time.Now()
	return ref, nil
}

// Missing lists roles with no file attached, in pipeline order.
func (s *Study) Missing() []string {
	var out []string
	for _, r := range dashboard.Roles {
		if s.Datasets[r] == nil {
			out = append(out, r)
		}
	}
	return out
}

// LoadTables reads every attached file. A file that fails to load leaves its
// role empty and is reported as a load_failed warning so the other datasets
// still feed the dashboard.
func (s *Study) LoadTables(opt table.LoadOptions) (dashboard.Datasets, []dashboard.Warning) {
	var ds dashboard.Datasets
	var warns []dashboard.Warning
	for _, role := range dashboard.Roles {
		ref := s.Datasets[role]
		if ref == nil {
			continue
		}
		o := opt
		if ref.SheetName != "" {
			o.SheetName = ref.SheetName
		}
		if ref.SheetIndex > 0 {
			o.SheetIndex = ref.SheetIndex
		}
		tbl, err := table.Load(ref.Path, o)
		if err != nil {
			logging.Warn().Err(err).Str("role", role).Str("path", ref.Path).Msg("dataset load failed")
			warns = append(warns, dashboard.Warning{
				Code:    dashboard.CodeLoadFailed,
				Dataset: role,
				Message: err.Error(),
			})
			continue
		}
		tbl.Name = role
		switch role {
		case dashboard.RoleRegistrations:
			ds.Registrations = tbl
		case dashboard.RoleHouseholds:
			ds.Households = tbl
		case dashboard.RoleIndividuals:
			ds.Individuals = tbl
		case dashboard.RoleAccidents:
			ds.Accidents = tbl
		}
	}
	return ds, warns
}

func validRole(role string) bool {
	for _, r := range dashboard.Roles {
		if r == role {
			return true
		}
	}
	return false
}

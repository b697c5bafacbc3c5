package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "contactbook.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Book.Path != "~/.contactbook/book.json" {
		t.Errorf("default book path = %q, want %q", cfg.Book.Path, "~/.contactbook/book.json")
	}
	if cfg.List.PageSize != 5 {
		t.Errorf("default page size = %d, want 5", cfg.List.PageSize)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("default log level = %q, want %q", cfg.Log.Level, "warn")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadLayered_ValidFile(t *testing.T) {
	cfgPath := writeConfig(t, `
book:
  path: /tmp/contacts.yaml
list:
  page_size: 10
log:
  level: debug
  format: json
`)

	cfg, err := LoadLayered(cfgPath)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	if cfg.Book.Path != "/tmp/contacts.yaml" {
		t.Errorf("book path = %q, want %q", cfg.Book.Path, "/tmp/contacts.yaml")
	}
	if cfg.List.PageSize != 10 {
		t.Errorf("page size = %d, want 10", cfg.List.PageSize)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v, want debug/json", cfg.Log)
	}
}

func TestLoadLayered_MissingFile(t *testing.T) {
	cfg, err := LoadLayered("/nonexistent/contactbook.yaml")
	if err != nil {
		t.Fatalf("LoadLayered() should return defaults for missing file, got error: %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("LoadLayered(missing) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_InvalidYAML(t *testing.T) {
	_, err := LoadLayered(writeConfig(t, "{{invalid yaml"))
	if err == nil {
		t.Fatal("LoadLayered(invalid YAML) should return error")
	}
}

func TestLoadLayered_PartialConfig(t *testing.T) {
	cfg, err := LoadLayered(writeConfig(t, `
list:
  page_size: 3
`))
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	if cfg.List.PageSize != 3 {
		t.Errorf("page size = %d, want 3", cfg.List.PageSize)
	}
	// Unset fields should retain defaults.
	if cfg.Book.Path != "~/.contactbook/book.json" {
		t.Errorf("book path = %q, want default", cfg.Book.Path)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log format = %q, want default %q", cfg.Log.Format, "text")
	}
}

func TestLoadLayered_LayeredPriority(t *testing.T) {
	// Setup: user config sets the book, project config overrides page size and log level.
	userCfg := writeConfig(t, `
book:
  path: /home/me/book.json
list:
  page_size: 2
`)
	projectCfg := writeConfig(t, `
list:
  page_size: 8
log:
  level: info
`)

	cfg, err := LoadLayered(userCfg, projectCfg)
	if err != nil {
		t.Fatalf("LoadLayered() error = %v", err)
	}
	// Book from user config (project doesn't set it).
	if cfg.Book.Path != "/home/me/book.json" {
		t.Errorf("book path = %q, want %q", cfg.Book.Path, "/home/me/book.json")
	}
	// Page size from project config (overrides user).
	if cfg.List.PageSize != 8 {
		t.Errorf("page size = %d, want 8", cfg.List.PageSize)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "info")
	}
	// Format retains default when neither layer sets it.
	if cfg.Log.Format != "text" {
		t.Errorf("log format = %q, want default %q", cfg.Log.Format, "text")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name: "CONTACTBOOK_BOOK overrides book path",
			envs: map[string]string{"CONTACTBOOK_BOOK": "/custom/book.yml"},
			check: func(t *testing.T, c Config) {
				if c.Book.Path != "/custom/book.yml" {
					t.Errorf("book path = %q, want %q", c.Book.Path, "/custom/book.yml")
				}
			},
		},
		{
			name: "CONTACTBOOK_PAGE_SIZE overrides page size",
			envs: map[string]string{"CONTACTBOOK_PAGE_SIZE": "12"},
			check: func(t *testing.T, c Config) {
				if c.List.PageSize != 12 {
					t.Errorf("page size = %d, want 12", c.List.PageSize)
				}
			},
		},
		{
			name: "CONTACTBOOK_LOG_LEVEL and FORMAT override logging",
			envs: map[string]string{"CONTACTBOOK_LOG_LEVEL": "debug", "CONTACTBOOK_LOG_FORMAT": "json"},
			check: func(t *testing.T, c Config) {
				if c.Log.Level != "debug" || c.Log.Format != "json" {
					t.Errorf("log = %+v, want debug/json", c.Log)
				}
			},
		},
		{
			name:    "invalid CONTACTBOOK_PAGE_SIZE returns error",
			envs:    map[string]string{"CONTACTBOOK_PAGE_SIZE": "lots"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			err := cfg.ApplyEnv()

			if tt.wantErr {
				if err == nil {
					t.Fatal("ApplyEnv() should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadLayered_UnknownField(t *testing.T) {
	_, err := LoadLayered(writeConfig(t, `
list:
  pagesize: 4
`))
	if err == nil {
		t.Fatal("LoadLayered() should return error for unknown field 'pagesize'")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:    "empty book path",
			modify:  func(c *Config) { c.Book.Path = "" },
			wantErr: true,
		},
		{
			name:    "zero page size",
			modify:  func(c *Config) { c.List.PageSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative page size",
			modify:  func(c *Config) { c.List.PageSize = -2 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadLayered_CommentOnlyFile(t *testing.T) {
	cfg, err := LoadLayered(writeConfig(t, "# just a comment\n"))
	if err != nil {
		t.Fatalf("LoadLayered(comment-only) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("LoadLayered(comment-only) = %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_AllMissing(t *testing.T) {
	cfg, err := LoadLayered("/no/user.yaml", "/no/project.yaml")
	if err != nil {
		t.Fatalf("LoadLayered(all missing) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("got %+v, want defaults %+v", *cfg, want)
	}
}

func TestLoadLayered_EmptyFile(t *testing.T) {
	cfg, err := LoadLayered(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadLayered(empty) error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != want {
		t.Errorf("LoadLayered(empty) = %+v, want defaults %+v", *cfg, want)
	}
}

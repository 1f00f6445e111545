package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/commitgate/internal/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.MaxSubjectLength)
	assert.Equal(t, lint.DefaultTypes, cfg.Types.Names)
	assert.False(t, cfg.Types.All)
	assert.False(t, cfg.WarnOnFail)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, 4, cfg.Jobs)
	require.NoError(t, cfg.Validate())
}

func TestTypeList_YAML(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(`types: "*"`), &cfg))
	assert.True(t, cfg.Types.All)

	cfg = Config{}
	require.NoError(t, yaml.Unmarshal([]byte("types: [feat, fix]"), &cfg))
	assert.Equal(t, []string{"feat", "fix"}, cfg.Types.Names)

	cfg = Config{}
	err := yaml.Unmarshal([]byte("types: feat"), &cfg)
	assert.Error(t, err)

	cfg = Config{}
	err = yaml.Unmarshal([]byte("types: {feat: true}"), &cfg)
	assert.Error(t, err)

	out, err := yaml.Marshal(Config{Types: TypeList{All: true}})
	require.NoError(t, err)
	cfg = Config{}
	require.NoError(t, yaml.Unmarshal(out, &cfg))
	assert.True(t, cfg.Types.All, string(out))
}

func TestParseTypeList(t *testing.T) {
	assert.Equal(t, TypeList{All: true}, ParseTypeList(" * "))
	assert.Equal(t, TypeList{Names: []string{"feat", "fix"}}, ParseTypeList("feat, fix,"))
	assert.True(t, ParseTypeList("").IsZero())
	assert.Equal(t, "feat,fix", ParseTypeList("feat,fix").String())
	assert.Equal(t, "*", ParseTypeList("*").String())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RepoConfigName)
	data := `maxSubjectLength: 72
types: [feat, fix]
subjectPattern: "^[a-z]"
subjectPatternErrorMsg: "lowercase please"
warnOnFail: true
helpMessage: "see %s"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 72, cfg.MaxSubjectLength)
	assert.Equal(t, []string{"feat", "fix"}, cfg.Types.Names)
	assert.Equal(t, "^[a-z]", cfg.SubjectPattern)
	assert.Equal(t, "lowercase please", cfg.SubjectPatternError)
	assert.True(t, cfg.WarnOnFail)
	assert.Equal(t, "see %s", cfg.HelpMessage)
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)

	cfg, err = LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxSubjectLength: [1"), 0o644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Types = TypeList{All: true}
	cfg.HelpMessage = "help"
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("COMMITGATE_MAX_SUBJECT_LENGTH", "50")
	t.Setenv("COMMITGATE_TYPES", "*")
	t.Setenv("COMMITGATE_WARN_ON_FAIL", "true")
	t.Setenv("COMMITGATE_FORMAT", "json")
	t.Setenv("COMMITGATE_JOBS", "8")

	cfg := Default()
	require.NoError(t, mergeEnv(&cfg))
	assert.Equal(t, 50, cfg.MaxSubjectLength)
	assert.True(t, cfg.Types.All)
	assert.True(t, cfg.WarnOnFail)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 8, cfg.Jobs)
}

func TestMergeEnv_Invalid(t *testing.T) {
	t.Setenv("COMMITGATE_WARN_ON_FAIL", "sometimes")
	cfg := Default()
	err := mergeEnv(&cfg)
	assert.ErrorContains(t, err, "COMMITGATE_WARN_ON_FAIL")
}

func TestMergeFile(t *testing.T) {
	dst := Default()
	mergeFile(&dst, Config{MaxSubjectLength: 60, HelpMessage: "h"})
	assert.Equal(t, 60, dst.MaxSubjectLength)
	assert.Equal(t, "h", dst.HelpMessage)
	assert.Equal(t, lint.DefaultTypes, dst.Types.Names, "unset types keep the default")
	assert.Equal(t, "text", dst.Format)
}

func TestConfigPrecedence(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), RepoConfigName)
	require.NoError(t, os.WriteFile(path, []byte("maxSubjectLength: 80\ntypes: [feat]\n"), 0o644))
	t.Setenv("COMMITGATE_MAX_SUBJECT_LENGTH", "70")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 70, cfg.MaxSubjectLength, "env beats file")
	assert.Equal(t, []string{"feat"}, cfg.Types.Names)

	cfg, err = Load(path, map[string]string{"maxSubjectLength": "60", "types": "fix,docs"})
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.MaxSubjectLength, "flags beat env")
	assert.Equal(t, []string{"fix", "docs"}, cfg.Types.Names)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("", map[string]string{"format": "xml"})
	assert.ErrorContains(t, err, "unsupported output format")

	_, err = Load("", map[string]string{"jobs": "-1"})
	assert.Error(t, err)

	_, err = Load("", map[string]string{"bogus": "1"})
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestSetField(t *testing.T) {
	cfg := Default()
	tests := []struct{ key, value string }{
		{"maxSubjectLength", "72"},
		{"types", "feat,fix"},
		{"subjectPattern", "^[a-z]"},
		{"subjectPatternErrorMsg", "bad subject"},
		{"warnOnFail", "true"},
		{"helpMessage", "see docs"},
		{"format", "json"},
		{"jobs", "2"},
		{"metricsFile", "/tmp/cg.prom"},
	}
	for _, tt := range tests {
		require.NoError(t, SetField(&cfg, tt.key, tt.value), tt.key)
	}
	assert.Equal(t, 72, cfg.MaxSubjectLength)
	assert.True(t, cfg.WarnOnFail)
	assert.Equal(t, "/tmp/cg.prom", cfg.MetricsFile)

	assert.ErrorIs(t, SetField(&cfg, "nonexistent", "x"), ErrUnknownKey)
	assert.Error(t, SetField(&cfg, "maxSubjectLength", "many"))
	assert.Error(t, SetField(&cfg, "jobs", "x"))
}

func TestFindRepoConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	assert.Equal(t, "", FindRepoConfig(nested))

	path := filepath.Join(root, RepoConfigName)
	require.NoError(t, os.WriteFile(path, []byte("types: '*'\n"), 0o644))
	assert.Equal(t, path, FindRepoConfig(nested))
}

func TestResolvePath(t *testing.T) {
	p, err := ResolvePath("/explicit.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/explicit.yaml", p)
}

func TestLint(t *testing.T) {
	cfg := Default()
	cfg.SubjectPattern = "^[a-z]"
	cfg.Types = TypeList{Names: []string{"feat"}}
	cfg.WarnOnFail = true

	lc, err := cfg.Lint()
	require.NoError(t, err)
	require.NotNil(t, lc.SubjectPattern)
	assert.True(t, lc.AllowedTypes.Allows("feat"))
	assert.False(t, lc.AllowedTypes.Allows("fix"))
	assert.True(t, lc.WarnOnFail)
	assert.Equal(t, 100, lc.MaxSubjectLength)

	cfg.SubjectPattern = "("
	_, err = cfg.Lint()
	assert.ErrorContains(t, err, "subjectPattern")
}

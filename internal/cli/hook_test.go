package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHookScript(t *testing.T, typ string, warnOnFail bool) string {
	t.Helper()
	script, err := generateHookScript(typ, warnOnFail)
	require.NoError(t, err, "generateHookScript(%q)", typ)
	return script
}

func TestGenerateHookScript_CommitMsg(t *testing.T) {
	script := mustHookScript(t, hookCommitMsg, false)
	start, end := hookMarkers(hookCommitMsg)

	assert.Contains(t, script, start)
	assert.Contains(t, script, end)
	assert.Contains(t, script, `commitgate check "$1"`+"\n", "the message file is passed to commitgate check")
	assert.Contains(t, script, "COMMITGATE_EXIT=$?")
	assert.Contains(t, script, "exit 1")
	assert.Contains(t, script, "allowing commit")
}

func TestGenerateHookScript_PreReceive(t *testing.T) {
	script := mustHookScript(t, hookPreReceive, true)

	assert.Contains(t, script, "commitgate pre-receive --warn-on-fail\n")
	assert.Contains(t, script, "push blocked")
	assert.NotContains(t, script, "check")
}

func TestGenerateHookScript_UnknownType(t *testing.T) {
	_, err := generateHookScript("pre-commit", false)
	assert.Error(t, err)
}

func TestReplaceHookSection_NoExisting(t *testing.T) {
	existing := "#!/bin/sh\nsome-other-hook\n"
	section := mustHookScript(t, hookCommitMsg, false)

	result := replaceHookSection(existing, hookCommitMsg, section)

	assert.Equal(t, existing+section, result)
}

func TestReplaceHookSection_ExistingSection(t *testing.T) {
	oldSection := mustHookScript(t, hookCommitMsg, true)
	existing := "#!/bin/sh\nbefore\n" + oldSection + "after\n"
	newSection := mustHookScript(t, hookCommitMsg, false)

	result := replaceHookSection(existing, hookCommitMsg, newSection)

	assert.Equal(t, "#!/bin/sh\nbefore\n"+newSection+"after\n", result)
	assert.NotContains(t, result, "--warn-on-fail")
}

func TestReplaceHookSection_OtherTypeUntouched(t *testing.T) {
	receive := mustHookScript(t, hookPreReceive, false)
	existing := "#!/bin/sh\n" + receive
	section := mustHookScript(t, hookCommitMsg, false)

	result := replaceHookSection(existing, hookCommitMsg, section)

	assert.Contains(t, result, receive, "a section of another hook type is preserved")
	assert.Equal(t, existing+section, result)
}

func TestReplaceHookSection_NoTrailingNewline(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook"
	section := mustHookScript(t, hookCommitMsg, false)

	result := replaceHookSection(existing, hookCommitMsg, section)

	assert.Equal(t, existing+"\n"+section, result)
}

func TestRemoveHookSection(t *testing.T) {
	section := mustHookScript(t, hookPreReceive, false)
	start, _ := hookMarkers(hookPreReceive)
	existing := "#!/bin/sh\nbefore\n" + section + "after\n"

	result := removeHookSection(existing, hookPreReceive)

	assert.NotContains(t, result, start)
	assert.Equal(t, "#!/bin/sh\nbefore\nafter\n", result)
}

func TestRemoveHookSection_NoSection(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook\n"
	assert.Equal(t, existing, removeHookSection(existing, hookCommitMsg))
}

func TestValidateHookType(t *testing.T) {
	for _, typ := range []string{hookCommitMsg, hookPreReceive} {
		assert.NoError(t, validateHookType(typ), typ)
	}
	assert.Error(t, validateHookType("post-commit"))
}

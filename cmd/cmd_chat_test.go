package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosestSlashCommand(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/hep", "/help"},
		{"/lst", "/list"},
		{"/by", "/bye"},
		{"/se", "/set"},
		{"/zzz", ""},
	}

	for _, tt := range cases {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, closestSlashCommand(tt.input))
		})
	}
}

func TestCompleteSlash(t *testing.T) {
	assert.Equal(t, []string{"/show", "/set"}, completeSlash("/s"))
	assert.Len(t, completeSlash("/"), len(slashCommands))
	assert.Nil(t, completeSlash("set"))
	assert.Nil(t, completeSlash("/zzz"))
}

package pipeline_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		errs := &pipeline.Errors{}
		assert.False(t, errs.HasErrors())
		assert.Equal(t, "no errors", errs.Error())
		assert.Empty(t, errs.List())
	})

	t.Run("nil collection", func(t *testing.T) {
		var errs *pipeline.Errors
		assert.Equal(t, 0, errs.Len())
		assert.Nil(t, errs.List())
	})

	t.Run("single", func(t *testing.T) {
		errs := &pipeline.Errors{}
		errs.Add("main.js", fs.ErrNotExist)
		assert.Equal(t, "main.js: "+fs.ErrNotExist.Error(), errs.Error())
		assert.True(t, errors.Is(errs, fs.ErrNotExist))
	})

	t.Run("ordered by path", func(t *testing.T) {
		errs := &pipeline.Errors{}
		errs.Add("b.css", errors.New("b"))
		errs.Add("a.css", errors.New("a"))

		list := errs.List()
		require.Len(t, list, 2)
		assert.Equal(t, "a.css", list[0].Path)
		assert.Contains(t, errs.Error(), "2 assets failed")
	})

	t.Run("concurrent adds", func(t *testing.T) {
		errs := &pipeline.Errors{}
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs.Add(filepath.Join("dir", string(rune('a'+i%26))+".css"), errors.New("x"))
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, errs.Len())
	})
}

package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/previewstudio/preview-renderer/internal/errors"
	"github.com/previewstudio/preview-renderer/internal/validation"
)

type renderOptions struct {
	JobDir  string `json:"job_dir" validate:"required"`
	Workers int    `json:"workers" validate:"gte=1,lte=64"`
	Format  string `json:"format" validate:"oneof=png jpg"`
}

func TestValidate_Success(t *testing.T) {
	v := validation.New()

	opts := renderOptions{
		JobDir:  "/tmp/job",
		Workers: 4,
		Format:  "png",
	}

	err := v.Validate(opts)
	assert.NoError(t, err)
}

func TestValidate_RequiredField(t *testing.T) {
	v := validation.New()

	opts := renderOptions{
		Workers: 4,
		Format:  "png",
	}

	err := v.Validate(opts)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrRun))
	assert.Contains(t, err.Error(), "job_dir is required")
}

func TestValidate_MultipleFailures(t *testing.T) {
	v := validation.New()

	opts := renderOptions{
		JobDir:  "/tmp/job",
		Workers: 0,
		Format:  "gif",
	}

	err := v.Validate(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be greater than or equal to 1")
	assert.Contains(t, err.Error(), "format must be one of: png jpg")
}

func TestValidate_JSONTagNames(t *testing.T) {
	v := validation.New()

	type withTag struct {
		OutputDir string `json:"output_dir,omitempty" validate:"required"`
	}

	err := v.Validate(withTag{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output_dir")
	assert.NotContains(t, err.Error(), "OutputDir")
}

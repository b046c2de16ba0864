package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareModel(t *testing.T) {
	// Simulates an already downloaded model so no network access is needed.
	prepareLocalModel := func(t *testing.T, dirName string) string {
		t.Helper()
		modelPath := filepath.Join("./models", dirName)
		require.NoError(t, os.MkdirAll(modelPath, 0750), "Expected directory creation to succeed")
		t.Cleanup(func() { os.RemoveAll(modelPath) })
		return modelPath
	}

	t.Run("Returns existing model path without downloading", func(t *testing.T) {
		modelPath := prepareLocalModel(t, "test_mock-model")

		path, err := PrepareModel("test/mock-model", "")

		assert.NoError(t, err, "Expected PrepareModel to not return an error for existing model")
		assert.Equal(t, modelPath, path, "Expected returned path to match existing model path")
	})

	t.Run("Sanitizes slashes in the model name", func(t *testing.T) {
		expectedPath := prepareLocalModel(t, "organization_model-name")

		path, err := PrepareModel("organization/model-name", "")

		assert.NoError(t, err, "Expected PrepareModel to not return an error")
		assert.Equal(t, expectedPath, path, "Expected path to use sanitized name")
	})

	t.Run("Keeps model names without slash unchanged", func(t *testing.T) {
		expectedPath := prepareLocalModel(t, "simple-model")

		path, err := PrepareModel("simple-model", "")

		assert.NoError(t, err, "Expected PrepareModel to not return an error")
		assert.Equal(t, expectedPath, path, "Expected path to use model name directly")
	})

	t.Run("Accepts an explicit onnx file path", func(t *testing.T) {
		modelPath := prepareLocalModel(t, "test_onnx-model")

		path, err := PrepareModel("test/onnx-model", "onnx/model.onnx")

		assert.NoError(t, err, "Expected PrepareModel with onnx path to not return an error")
		assert.Equal(t, modelPath, path, "Expected model path to be returned")
	})
}

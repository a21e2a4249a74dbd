package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T, values map[string]interface{}) {
	t.Helper()
	viper.Reset()
	for k, v := range values {
		viper.Set(k, v)
	}
	t.Cleanup(viper.Reset)
}

func validFlagValues() map[string]interface{} {
	return map[string]interface{}{
		"s3-access-key": "AKIAEXAMPLEKEY123456",
		"s3-secret-key": "secret",
		"s3-bucket":     "assets",
		"dry-run":       true,
	}
}

func TestValidateFlags_Valid(t *testing.T) {
	resetViper(t, validFlagValues())
	assert.Nil(t, validateFlags())
}

func TestValidateFlags_MissingS3(t *testing.T) {
	values := validFlagValues()
	delete(values, "s3-access-key")
	delete(values, "s3-bucket")
	resetViper(t, values)

	err := validateFlags()
	require.NotNil(t, err)
	assert.Equal(t, ExitConfig, err.ExitCode)

	section := err.Sections["S3 Storage"]
	require.NotNil(t, section)
	assert.Len(t, section.Issues, 2)
	assert.Contains(t, err.Error(), "--s3-access-key")
	assert.Contains(t, err.Error(), "--s3-bucket")
}

func TestValidateFlags_ImagesOnlyRequiresDryRun(t *testing.T) {
	values := validFlagValues()
	delete(values, "dry-run")
	values["delete-all"] = true
	values["images-only"] = true
	resetViper(t, values)

	err := validateFlags()
	require.NotNil(t, err)
	require.NotNil(t, err.Sections["Sweep Mode"])
}

func TestValidateFlags_ImagesOnlyWithDeleteImages(t *testing.T) {
	values := validFlagValues()
	delete(values, "dry-run")
	values["delete-images"] = true
	values["images-only"] = true
	resetViper(t, values)

	assert.Nil(t, validateFlags(), "redundant filter flag must not be rejected")
}

func TestValidateFlags_Pushover(t *testing.T) {
	t.Run("one key without the other", func(t *testing.T) {
		values := validFlagValues()
		values["pushover-api-key"] = "azGDORePK8gMaC0QOYAMyEEuzJnyUi"
		resetViper(t, values)

		err := validateFlags()
		require.NotNil(t, err)
		require.NotNil(t, err.Sections["Notifications"])
	})

	t.Run("malformed keys", func(t *testing.T) {
		values := validFlagValues()
		values["pushover-api-key"] = "tooshort"
		values["pushover-user-key"] = "uQiRzpo4DXghDmr9QzzfQu27cmVRsG"
		resetViper(t, values)

		err := validateFlags()
		require.NotNil(t, err)
		section := err.Sections["Notifications"]
		require.NotNil(t, section)
		assert.Len(t, section.Issues, 1)
	})

	t.Run("well-formed keys", func(t *testing.T) {
		values := validFlagValues()
		values["pushover-api-key"] = "azGDORePK8gMaC0QOYAMyEEuzJnyUi"
		values["pushover-user-key"] = "uQiRzpo4DXghDmr9QzzfQu27cmVRsG"
		resetViper(t, values)

		assert.Nil(t, validateFlags())
	})
}

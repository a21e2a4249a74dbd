package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

var pushoverKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9]{30}$`)

func validateFlags() *ValidationError {
	err := &ValidationError{
		Sections: make(map[string]*ValidationSection),
		ExitCode: ExitConfig,
	}

	s3Section := &ValidationSection{}
	requiredS3 := []struct{ key, description string }{
		{"s3-access-key", "Missing S3 Access Key (--s3-access-key)"},
		{"s3-secret-key", "Missing S3 Secret Key (--s3-secret-key)"},
		{"s3-bucket", "Missing S3 Bucket Name (--s3-bucket)"},
	}
	for _, req := range requiredS3 {
		if viper.GetString(req.key) == "" {
			s3Section.Issues = append(s3Section.Issues, req.description)
		}
	}
	if len(s3Section.Issues) > 0 {
		var flagNames []string
		flagPattern := regexp.MustCompile(`--[a-z0-9-]+`)
		for _, issue := range s3Section.Issues {
			if flag := flagPattern.FindString(issue); flag != "" {
				flagNames = append(flagNames, flag)
			}
		}
		s3Section.Solutions, s3Section.SettingAdvice = generateStandardFixes(flagNames)
		err.Sections["S3 Storage"] = s3Section
	}

	// --images-only alongside --delete-images is redundant but harmless: both
	// select the image filter. Only reject it when nothing would act on images.
	modeSection := &ValidationSection{}
	if viper.GetBool("images-only") && !viper.GetBool("dry-run") && !viper.GetBool("delete-images") {
		modeSection.Issues = append(modeSection.Issues, "--images-only is a dry-run filter; use --delete-images to actually delete images")
		modeSection.Solutions = []string{
			"For a preview of image deletions: --dry-run --images-only",
			"To delete image files: --delete-images",
		}
		err.Sections["Sweep Mode"] = modeSection
	}

	notifySection := &ValidationSection{}
	apiKey := viper.GetString("pushover-api-key")
	userKey := viper.GetString("pushover-user-key")
	switch {
	case (apiKey != "") != (userKey != ""):
		notifySection.Issues = append(notifySection.Issues, "Both Pushover keys must be provided if one is set (--pushover-api-key, --pushover-user-key)")
		notifySection.Solutions, notifySection.SettingAdvice = generateStandardFixes([]string{
			"--pushover-api-key",
			"--pushover-user-key",
		})
		err.Sections["Notifications"] = notifySection
	case apiKey != "" && (!pushoverKeyPattern.MatchString(apiKey) || !pushoverKeyPattern.MatchString(userKey)):
		if !pushoverKeyPattern.MatchString(apiKey) {
			notifySection.Issues = append(notifySection.Issues, "Pushover API key format is invalid (--pushover-api-key)")
		}
		if !pushoverKeyPattern.MatchString(userKey) {
			notifySection.Issues = append(notifySection.Issues, "Pushover User key format is invalid (--pushover-user-key)")
		}
		notifySection.Solutions = []string{
			"Pushover keys are exactly 30 alphanumeric characters (A-Z, a-z, 0-9).",
		}
		err.Sections["Notifications"] = notifySection
	}

	if len(err.Sections) > 0 {
		return err
	}
	return nil
}

func generateStandardFixes(flagNames []string) (solutions []string, settingAdvice []string) {
	solutions = []string{"Provide the required value(s)"}

	var flagsWithValues []string
	for _, flag := range flagNames {
		flagsWithValues = append(flagsWithValues, flag+" VALUE")
	}

	var envVars []string
	for _, flag := range flagNames {
		envVar := strings.ToUpper(strings.ReplaceAll(strings.TrimPrefix(flag, "--"), "-", "_"))
		envVars = append(envVars, envVar+"=VALUE")
	}

	settingAdvice = []string{
		fmt.Sprintf("1. Via flags: %s", strings.Join(flagsWithValues, " ")),
		fmt.Sprintf("2. Via environment variables: %s", strings.Join(envVars, " ")),
		"3. Via config file (e.g., ~/.bucket-sweep.yaml)",
	}

	return
}

/*
Copyright 2024 Predictr.io

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package action

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// OutputSubscription carries the fully qualified subscription name.
	OutputSubscription = "subscription"
	// OutputCreated is "true" when this run created the subscription.
	OutputCreated = "created"

	// OutputFileEnvKey names the file the runner collects step outputs from.
	OutputFileEnvKey = "GITHUB_OUTPUT"
)

// OutputWriter appends step outputs to the runner's output file. When the
// file is not configured (local runs), outputs are logged instead.
type OutputWriter struct {
	path   string
	logger *zap.Logger
}

// NewOutputWriter returns a writer against the file named by GITHUB_OUTPUT.
func NewOutputWriter(logger *zap.Logger) *OutputWriter {
	return &OutputWriter{
		path:   os.Getenv(OutputFileEnvKey),
		logger: logger,
	}
}

// Set records one named output.
func (w *OutputWriter) Set(name, value string) error {
	if w.path == "" {
		w.logger.Warn("Output file is not configured, logging output instead.",
			zap.String("name", name),
			zap.String("value", value),
		)
		return nil
	}
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to open output file %s", w.path)
	}
	defer f.Close()
	if _, err := f.WriteString(formatOutput(name, value)); err != nil {
		return errors.Wrapf(err, "failed to write output %q", name)
	}
	return nil
}

// formatOutput renders the runner's 'name=value' line, falling back to the
// heredoc form for multiline values.
func formatOutput(name, value string) string {
	if !strings.Contains(value, "\n") {
		return fmt.Sprintf("%s=%s\n", name, value)
	}
	delimiter := "ghadelimiter_" + uuid.NewString()
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
}

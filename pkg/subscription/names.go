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

package subscription

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DeletedTopic is the topic name the service reports on a subscription
	// whose topic has been deleted.
	// See https://cloud.google.com/pubsub/docs/reference/rpc/google.pubsub.v1#subscription
	DeletedTopic = "_deleted-topic_"

	reservedIDPrefix = "goog"
)

var (
	// resourceIDRE bounds Pub/Sub resource IDs (topics and subscriptions):
	// 3-255 characters, starting with a letter.
	// See https://cloud.google.com/pubsub/docs/admin#resource_names
	resourceIDRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9\-_.~+%]{2,254}$`)

	// projectIDRE bounds GCP project IDs: 6-30 characters, lowercase
	// letters, digits and hyphens, starting with a letter.
	projectIDRE = regexp.MustCompile(`^[a-z][a-z0-9-]{4,28}[a-z0-9]$`)

	// topicNameRE is the full topic name shape.
	topicNameRE = regexp.MustCompile(`^projects/([^/]+)/topics/([^/]+)$`)
)

// ValidateResourceID returns an error if id is not a valid Pub/Sub topic or
// subscription ID.
func ValidateResourceID(id string) error {
	if !resourceIDRE.MatchString(id) {
		return errors.Errorf("%q must match %q", id, resourceIDRE)
	}
	if strings.HasPrefix(strings.ToLower(id), reservedIDPrefix) {
		return errors.Errorf("%q must not start with %q", id, reservedIDPrefix)
	}
	return nil
}

// ValidateProjectID returns an error if id is not a valid GCP project ID.
func ValidateProjectID(id string) error {
	if !projectIDRE.MatchString(id) {
		return errors.Errorf("%q must match %q", id, projectIDRE)
	}
	return nil
}

// ParseTopicName splits a full topic name into its project and topic IDs.
// The second return is false when name is not in the full form.
func ParseTopicName(name string) (project, id string, ok bool) {
	matches := topicNameRE.FindStringSubmatch(name)
	if matches == nil {
		return "", "", false
	}
	return matches[1], matches[2], true
}

// TopicName returns the full topic name for a topic ID within a project.
func TopicName(project, id string) string {
	return fmt.Sprintf("projects/%s/topics/%s", project, id)
}

// Name returns the full subscription name for a subscription ID within a project.
func Name(project, id string) string {
	return fmt.Sprintf("projects/%s/subscriptions/%s", project, id)
}

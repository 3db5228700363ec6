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

// Package pubsub provides interfaces and wrappers around the google pubsub
// client, so that the create-or-verify run can be exercised against fakes.
package pubsub

import (
	"context"
)

// Client matches the subset of the interface exposed by pubsub.Client that
// this action uses.
// See https://godoc.org/cloud.google.com/go/pubsub#Client
type Client interface {
	// Close see https://godoc.org/cloud.google.com/go/pubsub#Client.Close
	Close() error
	// TopicInProject see https://godoc.org/cloud.google.com/go/pubsub#Client.TopicInProject
	TopicInProject(id, projectID string) Topic
	// Subscription see https://godoc.org/cloud.google.com/go/pubsub#Client.Subscription
	Subscription(id string) Subscription
	// CreateSubscription see https://godoc.org/cloud.google.com/go/pubsub#Client.CreateSubscription
	CreateSubscription(ctx context.Context, id string, cfg SubscriptionConfig) (Subscription, error)
}

// Subscription matches the interface exposed by pubsub.Subscription.
// See https://godoc.org/cloud.google.com/go/pubsub#Subscription
type Subscription interface {
	// Exists see https://godoc.org/cloud.google.com/go/pubsub#Subscription.Exists
	Exists(ctx context.Context) (bool, error)
	// Config see https://godoc.org/cloud.google.com/go/pubsub#Subscription.Config
	Config(ctx context.Context) (SubscriptionConfig, error)
	// String see https://godoc.org/cloud.google.com/go/pubsub#Subscription.String
	String() string
}

// Topic matches the interface exposed by pubsub.Topic.
// See https://godoc.org/cloud.google.com/go/pubsub#Topic
type Topic interface {
	// Exists see https://godoc.org/cloud.google.com/go/pubsub#Topic.Exists
	Exists(ctx context.Context) (bool, error)
	// String see https://godoc.org/cloud.google.com/go/pubsub#Topic.String
	String() string
}

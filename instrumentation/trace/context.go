// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package trace

import (
	"context"
	"github.com/google/uuid"
	"github.com/orbs-network/scribe/log"
	"time"
)

type entryPointKeyType string

const entryPointKey entryPointKeyType = "ep"
const RequestId = "request-id"

type Context struct {
	created   time.Time
	name      string
	requestId string
}

// NewContext marks ctx as the entry point of a call; nested calls keep the outer request id
func NewContext(parent context.Context, name string) context.Context {
	if _, ok := FromContext(parent); ok {
		return parent
	}

	ep := &Context{
		name:      name,
		created:   time.Now(),
		requestId: name + "-" + uuid.New().String(),
	}
	return context.WithValue(parent, entryPointKey, ep)
}

func FromContext(ctx context.Context) (e *Context, ok bool) {
	e, ok = ctx.Value(entryPointKey).(*Context)
	return
}

func (c *Context) RequestId() string {
	return c.requestId
}

func (c *Context) Since() time.Duration {
	return time.Since(c.created)
}

func LogFieldFrom(ctx context.Context) *log.Field {
	if trace, ok := FromContext(ctx); ok {
		return log.String(RequestId, trace.requestId)
	}
	return log.String(RequestId, "NO-CONTEXT")
}

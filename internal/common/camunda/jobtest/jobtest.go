// Package jobtest provides a worker.JobClient whose commands are answered by
// an in-memory gateway, so handlers can be driven end to end in tests.
package jobtest

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// Gateway records the settle requests it receives. Every other gateway call
// panics on the nil embedded client.
type Gateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
}

func (g *Gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *Gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *Gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

func (g *Gateway) Completed() []*pb.CompleteJobRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*pb.CompleteJobRequest(nil), g.completed...)
}

func (g *Gateway) Failed() []*pb.FailJobRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*pb.FailJobRequest(nil), g.failed...)
}

func (g *Gateway) Thrown() []*pb.ThrowErrorRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*pb.ThrowErrorRequest(nil), g.thrown...)
}

// Client implements worker.JobClient on top of a Gateway.
type Client struct {
	Gateway *Gateway
}

func NewClient() *Client {
	return &Client{Gateway: &Gateway{}}
}

func noRetry(context.Context, error) bool { return false }

func (c *Client) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, noRetry)
}

func (c *Client) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, noRetry)
}

func (c *Client) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, noRetry)
}

// NewJob builds an activated job carrying variables.
func NewJob(key int64, taskType, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               taskType,
		ProcessInstanceKey: key * 10,
		Retries:            3,
		Variables:          variables,
	}}
}

// CompletedVariables decodes the variables of the single completed job.
func CompletedVariables(t testing.TB, c *Client) map[string]interface{} {
	t.Helper()
	completed := c.Gateway.Completed()
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed job, got %d (failed %d, thrown %d)",
			len(completed), len(c.Gateway.Failed()), len(c.Gateway.Thrown()))
	}
	var vars map[string]interface{}
	if err := json.Unmarshal([]byte(completed[0].Variables), &vars); err != nil {
		t.Fatalf("decode completed variables: %v", err)
	}
	return vars
}

// ThrownCode returns the error code of the single thrown BPMN error.
func ThrownCode(t testing.TB, c *Client) string {
	t.Helper()
	thrown := c.Gateway.Thrown()
	if len(thrown) != 1 {
		t.Fatalf("expected 1 thrown error, got %d (completed %d, failed %d)",
			len(thrown), len(c.Gateway.Completed()), len(c.Gateway.Failed()))
	}
	return thrown[0].ErrorCode
}

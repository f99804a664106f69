package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the Resolver service over conn.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Resolve sends req, built with structpb.NewStruct semantics, to the server.
func (c *Client) Resolve(ctx context.Context, req map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	return c.invoke(ctx, ResolveMethod, req, opts...)
}

// Sample requests an outcome distribution.
func (c *Client) Sample(ctx context.Context, req map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	return c.invoke(ctx, SampleMethod, req, opts...)
}

// Profile starts or stops profiling of a definition.
func (c *Client) Profile(ctx context.Context, grf, action string, opts ...grpc.CallOption) (map[string]any, error) {
	return c.invoke(ctx, ProfileMethod, map[string]any{"grf": grf, "action": action}, opts...)
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

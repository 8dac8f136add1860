package simserver

import (
	"context"

	"google.golang.org/grpc"
)

// Client is a typed TurnService client.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
//
// Precondition: cc must be non-nil.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}

// ListVenues returns every venue in table order.
func (c *Client) ListVenues(ctx context.Context, opts ...grpc.CallOption) (*ListVenuesResponse, error) {
	out := new(ListVenuesResponse)
	if err := c.invoke(ctx, "ListVenues", &ListVenuesRequest{}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// GetChoices returns the per-slot choices for a partial selection.
func (c *Client) GetChoices(ctx context.Context, in *SelectionRequest, opts ...grpc.CallOption) (*ChoicesResponse, error) {
	out := new(ChoicesResponse)
	if err := c.invoke(ctx, "GetChoices", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateSelection reports whether a selection is a sanctioned encounter.
func (c *Client) ValidateSelection(ctx context.Context, in *SelectionRequest, opts ...grpc.CallOption) (*ValidateResponse, error) {
	out := new(ValidateResponse)
	if err := c.invoke(ctx, "ValidateSelection", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// CommitEncounter resolves a selection into monsters.
func (c *Client) CommitEncounter(ctx context.Context, in *SelectionRequest, opts ...grpc.CallOption) (*CommitResponse, error) {
	out := new(CommitResponse)
	if err := c.invoke(ctx, "CommitEncounter", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// CalculateTurns runs the scheduler.
func (c *Client) CalculateTurns(ctx context.Context, in *CalculateRequest, opts ...grpc.CallOption) (*CalculateResponse, error) {
	out := new(CalculateResponse)
	if err := c.invoke(ctx, "CalculateTurns", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// ReloadVenue drops the server's cached catalog for a venue and loads it again.
func (c *Client) ReloadVenue(ctx context.Context, in *VenueRequest, opts ...grpc.CallOption) (*ReloadVenueResponse, error) {
	out := new(ReloadVenueResponse)
	if err := c.invoke(ctx, "ReloadVenue", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

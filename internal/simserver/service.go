package simserver

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "colosseum.v1.TurnService"

// TurnServiceServer is the server API for TurnService.
type TurnServiceServer interface {
	ListVenues(context.Context, *ListVenuesRequest) (*ListVenuesResponse, error)
	GetChoices(context.Context, *SelectionRequest) (*ChoicesResponse, error)
	ValidateSelection(context.Context, *SelectionRequest) (*ValidateResponse, error)
	CommitEncounter(context.Context, *SelectionRequest) (*CommitResponse, error)
	CalculateTurns(context.Context, *CalculateRequest) (*CalculateResponse, error)
	ReloadVenue(context.Context, *VenueRequest) (*ReloadVenueResponse, error)
}

// ServiceDesc describes TurnService for grpc.ServiceRegistrar.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TurnServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListVenues", TurnServiceServer.ListVenues),
		unary("GetChoices", TurnServiceServer.GetChoices),
		unary("ValidateSelection", TurnServiceServer.ValidateSelection),
		unary("CommitEncounter", TurnServiceServer.CommitEncounter),
		unary("CalculateTurns", TurnServiceServer.CalculateTurns),
		unary("ReloadVenue", TurnServiceServer.ReloadVenue),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "colosseum/v1/turn_service",
}

// RegisterTurnServiceServer registers srv on s.
func RegisterTurnServiceServer(s grpc.ServiceRegistrar, srv TurnServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(TurnServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TurnServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TurnServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Package systemtwo — service.go
//
// Hand-written grpc.ServiceDesc for the single System 2 → gate RPC,
// standing in for protoc-generated code (see codec.go for why). The
// service exposes one unary method: a System 2 node pushes the raw bytes
// of a signed SignatureUpdate and receives back the gate.Code the host
// produced, as a 4-byte little-endian uint32.
package systemtwo

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

// SignatureUpdateServer is implemented by Server (server.go) and is the
// HandlerType the ServiceDesc below dispatches to.
type SignatureUpdateServer interface {
	// ApplySignatureUpdate receives the raw flatbuffers bytes of a signed
	// SignatureUpdate and returns the outcome code the host wrapper
	// produced by calling apply_signature_update, as a 4-byte
	// little-endian uint32.
	ApplySignatureUpdate(ctx context.Context, req []byte) ([]byte, error)
}

const (
	serviceName = "sentrygate.systemtwo.v1.SignatureUpdateService"
	methodName  = "ApplySignatureUpdate"
	fullMethod  = "/" + serviceName + "/" + methodName
)

// ServiceDesc is registered on a *grpc.Server with:
//
//	grpcSrv.RegisterService(&systemtwo.ServiceDesc, impl)
//
// in place of a generated RegisterSignatureUpdateServiceServer call.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SignatureUpdateServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: methodName,
			Handler:    applySignatureUpdateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/systemtwo/service.go",
}

func applySignatureUpdateHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(rawFrame)
	if err := dec(in); err != nil {
		return nil, err
	}
	impl, ok := srv.(SignatureUpdateServer)
	if !ok {
		return nil, fmt.Errorf("systemtwo: handler registered against non-conforming type %T", srv)
	}
	if interceptor == nil {
		return callApplySignatureUpdate(ctx, impl, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return callApplySignatureUpdate(ctx, impl, req.(*rawFrame))
	}
	return interceptor(ctx, in, info, handler)
}

func callApplySignatureUpdate(ctx context.Context, impl SignatureUpdateServer, in *rawFrame) (any, error) {
	out, err := impl.ApplySignatureUpdate(ctx, []byte(*in))
	if err != nil {
		return nil, err
	}
	reply := rawFrame(out)
	return &reply, nil
}

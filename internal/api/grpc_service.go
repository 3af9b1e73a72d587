package api

import (
	"context"
	"encoding/json"
	"math"

	"shareit/internal/converter"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const bookingServiceName = "shareit.booking.v1.BookingService"

const (
	methodCreateBooking     = "/" + bookingServiceName + "/CreateBooking"
	methodApproveBooking    = "/" + bookingServiceName + "/ApproveBooking"
	methodGetBooking        = "/" + bookingServiceName + "/GetBooking"
	methodListBookings      = "/" + bookingServiceName + "/ListBookings"
	methodListOwnerBookings = "/" + bookingServiceName + "/ListOwnerBookings"
)

// BookingServiceServer is the RPC contract. Messages are free-form structs
// carrying the same JSON shapes as the HTTP API.
type BookingServiceServer interface {
	CreateBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApproveBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBookings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOwnerBookings(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var bookingServiceDesc = grpc.ServiceDesc{
	ServiceName: bookingServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateBooking", Handler: unaryHandler(methodCreateBooking, BookingServiceServer.CreateBooking)},
		{MethodName: "ApproveBooking", Handler: unaryHandler(methodApproveBooking, BookingServiceServer.ApproveBooking)},
		{MethodName: "GetBooking", Handler: unaryHandler(methodGetBooking, BookingServiceServer.GetBooking)},
		{MethodName: "ListBookings", Handler: unaryHandler(methodListBookings, BookingServiceServer.ListBookings)},
		{MethodName: "ListOwnerBookings", Handler: unaryHandler(methodListOwnerBookings, BookingServiceServer.ListOwnerBookings)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shareit/booking/v1/booking.proto",
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&bookingServiceDesc, srv)
}

type rpcCall func(BookingServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call rpcCall) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BookingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BookingServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type approveRequest struct {
	BookingID int64 `json:"bookingId" validate:"required,gt=0"`
	Approved  *bool `json:"approved" validate:"required"`
}

type bookingIDRequest struct {
	BookingID int64 `json:"bookingId" validate:"required,gt=0"`
}

type listRequest struct {
	State string `json:"state"`
}

// BookingRPC adapts domain.BookingService to the RPC contract.
type BookingRPC struct {
	bookings domain.BookingService
	validate *validator.Validate
}

func NewBookingRPC(bookings domain.BookingService) *BookingRPC {
	return &BookingRPC{bookings: bookings, validate: newValidator()}
}

func (s *BookingRPC) CreateBooking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromMetadata(ctx)
	if err != nil {
		return nil, err
	}

	var req converter.BookingRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}

	booking, err := s.bookings.CreateBooking(ctx, userID, req.ItemID, req.Start.Time(), req.End.Time())
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeStruct(converter.ToBookingDTO(booking))
}

func (s *BookingRPC) ApproveBooking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromMetadata(ctx)
	if err != nil {
		return nil, err
	}

	var req approveRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}

	booking, err := s.bookings.ApproveBooking(ctx, userID, req.BookingID, *req.Approved)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeStruct(converter.ToBookingDTO(booking))
}

func (s *BookingRPC) GetBooking(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromMetadata(ctx)
	if err != nil {
		return nil, err
	}

	var req bookingIDRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetBooking(ctx, userID, req.BookingID)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeStruct(converter.ToBookingDTO(booking))
}

func (s *BookingRPC) ListBookings(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.list(ctx, in, s.bookings.ListBookingsForBooker)
}

func (s *BookingRPC) ListOwnerBookings(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.list(ctx, in, s.bookings.ListBookingsForOwner)
}

type listFunc func(ctx context.Context, requesterID int64, filter models.StateFilter) ([]*models.Booking, error)

func (s *BookingRPC) list(ctx context.Context, in *structpb.Struct, fetch listFunc) (*structpb.Struct, error) {
	userID, err := userIDFromMetadata(ctx)
	if err != nil {
		return nil, err
	}

	var req listRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}

	filter, err := models.ParseStateFilter(req.State)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	bookings, err := fetch(ctx, userID, filter)
	if err != nil {
		return nil, grpcError(err)
	}
	return encodeStruct(map[string]any{"bookings": converter.ToBookingDTOs(bookings)})
}

// maxExactInteger is the largest integer a protobuf number (float64) holds without rounding.
const maxExactInteger = 1<<53 - 1

// decode maps the struct onto a request type through its JSON form and validates it.
func (s *BookingRPC) decode(in *structpb.Struct, dst any) error {
	for name, v := range in.GetFields() {
		if n, ok := v.GetKind().(*structpb.Value_NumberValue); ok && math.Abs(n.NumberValue) > maxExactInteger {
			return status.Errorf(codes.InvalidArgument, "%s is out of range", name)
		}
	}
	raw, err := in.MarshalJSON()
	if err != nil {
		return status.Error(codes.InvalidArgument, "malformed request")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return status.Error(codes.InvalidArgument, validationMessage(err))
	}
	return nil
}

func encodeStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(raw); err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}

package ephemeris

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region wire
const (
	serviceName     = "vedaos.ephemeris.v1.Ephemeris"
	longitudeMethod = "/" + serviceName + "/Longitude"
	sunriseMethod   = "/" + serviceName + "/Sunrise"

	reasonUnsupportedBody = "UNSUPPORTED_BODY"
)

// #endregion wire

// #region client-struct
// Client is an Ephemeris backed by a remote gRPC ephemeris service.
// Messages travel as google.protobuf.Struct so no generated stubs are needed.
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// #endregion client-struct

// #region constructor
// NewClient connects to the ephemeris service at addr. timeout bounds each call; zero disables it.
func NewClient(addr string, timeout time.Duration) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

// NewClientWithConn wraps an existing connection. Used for tests over bufconn.
func NewClientWithConn(conn *grpc.ClientConn, timeout time.Duration) *Client {
	return &Client{conn: conn, timeout: timeout}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// #endregion close

// #region longitude
// Longitude asks the remote service for the tropical longitude of body at t.
func (c *Client) Longitude(ctx context.Context, body Body, t time.Time) (float64, error) {
	req, err := structpb.NewStruct(map[string]any{
		"body":    string(body),
		"instant": t.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return 0, fmt.Errorf("build longitude request: %w", err)
	}
	resp := &structpb.Struct{}
	if err := c.invoke(ctx, longitudeMethod, req, resp); err != nil {
		return 0, fmt.Errorf("longitude rpc %s: %w", body, err)
	}
	v, ok := resp.GetFields()["longitude"]
	if !ok {
		return 0, fmt.Errorf("longitude rpc %s: missing longitude field", body)
	}
	return norm(v.GetNumberValue()), nil
}

// #endregion longitude

// #region sunrise
// Sunrise asks the remote service for the sunrise instant.
func (c *Client) Sunrise(ctx context.Context, lat, lon float64, day time.Time) (time.Time, error) {
	req, err := structpb.NewStruct(map[string]any{
		"lat": lat,
		"lon": lon,
		"day": day.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("build sunrise request: %w", err)
	}
	resp := &structpb.Struct{}
	if err := c.invoke(ctx, sunriseMethod, req, resp); err != nil {
		return time.Time{}, fmt.Errorf("sunrise rpc: %w", err)
	}
	raw := resp.GetFields()["sunrise"].GetStringValue()
	rise, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("sunrise rpc: parse %q: %w", raw, err)
	}
	return rise.UTC(), nil
}

// #endregion sunrise

// #region invoke
func (c *Client) invoke(ctx context.Context, method string, req, resp *structpb.Struct) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	err := c.conn.Invoke(ctx, method, req, resp)
	if err == nil {
		return nil
	}
	st := status.Convert(err)
	switch st.Code() {
	case codes.OutOfRange:
		return fmt.Errorf("%s: %w", st.Message(), ErrOutOfRange)
	case codes.NotFound:
		return fmt.Errorf("%s: %w", st.Message(), ErrNoSunrise)
	case codes.InvalidArgument:
		if hasReason(st, reasonUnsupportedBody) {
			return fmt.Errorf("%s: %w", st.Message(), ErrUnsupportedBody)
		}
	}
	return err
}

func hasReason(st *status.Status, reason string) bool {
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetReason() == reason {
			return true
		}
	}
	return false
}

// #endregion invoke

package employee

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MikeMC777/comandas/internal/apperr"
)

var ErrInvalidCredentials = errors.New("invalid employee credentials")

// Directory resolves employee identity for the order service.
type Directory interface {
	Lookup(ctx context.Context, id string) (*Employee, error)
	// Verify returns ErrInvalidCredentials when id or pin do not match.
	Verify(ctx context.Context, id, pin string) (*Employee, error)
}

const defaultCallTimeout = 3 * time.Second

// Client is a Directory backed by the employee-service over gRPC. Every call
// fails fast when the service is unreachable and is bounded by a timeout.
type Client struct {
	conn    grpc.ClientConnInterface
	timeout time.Duration
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn, timeout: defaultCallTimeout}
}

// WithTimeout overrides the per-call deadline.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// Dial opens a non-blocking connection to the employee-service.
func Dial(addr string) (*Client, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return NewClient(conn), conn, nil
}

func (c *Client) Lookup(ctx context.Context, id string) (*Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, methodGetEmployee, wrapperspb.String(id), out); err != nil {
		return nil, fromStatus(err)
	}
	f := out.GetFields()
	return &Employee{ID: f["id"].GetStringValue(), Name: f["name"].GetStringValue()}, nil
}

func (c *Client) Verify(ctx context.Context, id, pin string) (*Employee, error) {
	in, err := structpb.NewStruct(map[string]any{"id": id, "pin": pin})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, methodVerifyPIN, in, out); err != nil {
		if status.Code(err) == codes.InvalidArgument {
			return nil, ErrInvalidCredentials
		}
		return nil, fromStatus(err)
	}
	f := out.GetFields()
	if !f["ok"].GetBoolValue() {
		return nil, ErrInvalidCredentials
	}
	return &Employee{ID: f["id"].GetStringValue(), Name: f["name"].GetStringValue()}, nil
}

func fromStatus(err error) error {
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.NotFound:
		return apperr.NotFound("%s", st.Message())
	case codes.InvalidArgument:
		return apperr.Validation("%s", st.Message())
	default:
		return apperr.Internal("employee directory", err)
	}
}

// Local is a Directory over a repository in the same process.
type Local struct {
	repo Repository
}

func NewLocal(repo Repository) *Local { return &Local{repo: repo} }

func (l *Local) Lookup(ctx context.Context, id string) (*Employee, error) {
	e, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Employee{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt}, nil
}

func (l *Local) Verify(ctx context.Context, id, pin string) (*Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidCredentials
	}
	e, err := l.repo.GetByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPIN(e.PINHash, pin) {
		return nil, ErrInvalidCredentials
	}
	return &Employee{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt}, nil
}

package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/condo-contacts/internal/repository"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Uptime    float64   `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database,omitempty"`
	Oracle    bool      `json:"oracle"`
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Uptime:    time.Since(s.started).Seconds(),
		Timestamp: time.Now().UTC(),
		Oracle:    s.pipe.OracleEnabled(),
	}
	status := http.StatusOK
	if s.db != nil {
		resp.Database = "ok"
		if err := repository.HealthCheck(r.Context(), s.db, 2*time.Second, s.logger); err != nil {
			resp.Status, resp.Database = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}

// ServeGRPCHealth runs a gRPC health (and reflection) server on addr until ctx is done.
// check, when set, decides the serving status at startup.
func ServeGRPCHealth(ctx context.Context, addr string, check func(context.Context) error, logger *slog.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	reflection.Register(grpcServer)

	st := healthpb.HealthCheckResponse_SERVING
	if check != nil {
		if err := check(ctx); err != nil {
			logger.Warn("grpc.health.not_serving", "error", err)
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	hs.SetServingStatus("", st)

	go func() {
		<-ctx.Done()
		hs.Shutdown()
		grpcServer.GracefulStop()
	}()

	logger.Info("grpc.health.serving", "addr", lis.Addr().String())
	return grpcServer.Serve(lis)
}

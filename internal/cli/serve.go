package cli

import (
	"fmt"
	"log"
	"net"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/prasanthkuna/vedaos/internal/ephemeris"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve-ephemeris",
		Short: "Serve the analytic ephemeris over gRPC",
		RunE:  runServe,
	}
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (default: config ephemeris.listen)")

	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("listen")
	if addr == "" {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		addr = cfg.Ephemeris.Listen
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := grpc.NewServer()
	ephemeris.RegisterServer(srv, ephemeris.NewAnalytic())

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		log.Printf("[serve] shutting down")
		srv.GracefulStop()
	}()

	log.Printf("[serve] analytic ephemeris listening on %s", lis.Addr())
	if err := srv.Serve(lis); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

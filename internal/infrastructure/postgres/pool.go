package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/smart-warehouse/pkg/config"
)

// NewPool abre el pool del almacén relacional. DATABASE_URL tiene prioridad sobre
// DB_HOST/DB_PORT/...; en ambos casos se prefiere IPv4 al resolver el host.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolCfg.ConnConfig.DialFunc = dialPreferIPv4
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 15 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

func buildDSN(cfg config.DBConfig) string {
	if cfg.DatabaseURL != "" {
		return urlWithIPv4(cfg.DatabaseURL)
	}
	if ip, err := lookupIPv4(cfg.Host); err == nil {
		cfg.Host = ip
	}
	return cfg.DSN()
}

// dialPreferIPv4 marca por tcp4 si el host resuelve a IPv4; si no, usa la red pedida.
func dialPreferIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := lookupIPv4(host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

// lookupIPv4 usa el resolver del sistema y, si no hay registro A, un DNS público.
func lookupIPv4(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", errors.New("es IPv6")
		}
		return host, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if ip, err := firstIPv4(ctx, net.DefaultResolver, host); err == nil {
		return ip, nil
	}
	public := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", "8.8.8.8:53")
		},
	}
	return firstIPv4(ctx, public, host)
}

func firstIPv4(ctx context.Context, r *net.Resolver, host string) (string, error) {
	ips, err := r.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip.String(), nil
		}
	}
	return "", errors.New("no hay IPv4")
}

// urlWithIPv4 sustituye el host de la URL por su IPv4; ante cualquier fallo la deja igual.
func urlWithIPv4(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	ip, err := lookupIPv4(u.Hostname())
	if err != nil {
		return raw
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String()
}

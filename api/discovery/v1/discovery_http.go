package v1

import (
	context "context"

	http "github.com/go-kratos/kratos/v2/transport/http"
)

const OperationDiscoveryServiceListTags = "/api.discovery.v1.DiscoveryService/ListTags"
const OperationDiscoveryServiceListGenres = "/api.discovery.v1.DiscoveryService/ListGenres"
const OperationDiscoveryServiceDiscover = "/api.discovery.v1.DiscoveryService/Discover"
const OperationDiscoveryServiceHealthCheck = "/api.discovery.v1.DiscoveryService/HealthCheck"

type DiscoveryServiceHTTPServer interface {
	ListTags(context.Context, *ListTagsRequest) (*ListTagsReply, error)
	ListGenres(context.Context, *ListGenresRequest) (*ListGenresReply, error)
	Discover(context.Context, *DiscoverRequest) (*DiscoverReply, error)
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckReply, error)
}

func RegisterDiscoveryServiceHTTPServer(s *http.Server, srv DiscoveryServiceHTTPServer) {
	r := s.Route("/")
	r.GET("/v1/tags", _DiscoveryService_ListTags0_HTTP_Handler(srv))
	r.GET("/v1/genres", _DiscoveryService_ListGenres0_HTTP_Handler(srv))
	r.GET("/v1/discover", _DiscoveryService_Discover0_HTTP_Handler(srv))
	r.GET("/healthz", _DiscoveryService_HealthCheck0_HTTP_Handler(srv))
}

func _DiscoveryService_ListTags0_HTTP_Handler(srv DiscoveryServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ListTagsRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDiscoveryServiceListTags)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ListTags(ctx, req.(*ListTagsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ListTagsReply)
		return ctx.Result(200, reply)
	}
}

func _DiscoveryService_ListGenres0_HTTP_Handler(srv DiscoveryServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ListGenresRequest
		http.SetOperation(ctx, OperationDiscoveryServiceListGenres)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ListGenres(ctx, req.(*ListGenresRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ListGenresReply)
		return ctx.Result(200, reply)
	}
}

func _DiscoveryService_Discover0_HTTP_Handler(srv DiscoveryServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in DiscoverRequest
		if err := ctx.BindQuery(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDiscoveryServiceDiscover)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Discover(ctx, req.(*DiscoverRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*DiscoverReply)
		return ctx.Result(200, reply)
	}
}

func _DiscoveryService_HealthCheck0_HTTP_Handler(srv DiscoveryServiceHTTPServer) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in HealthCheckRequest
		http.SetOperation(ctx, OperationDiscoveryServiceHealthCheck)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.HealthCheck(ctx, req.(*HealthCheckRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*HealthCheckReply)
		return ctx.Result(200, reply)
	}
}

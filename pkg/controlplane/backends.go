package controlplane

import (
	"context"

	"github.com/ovlmount/ovlmount/pkg/accessor"
	"github.com/ovlmount/ovlmount/pkg/accessor/localfs"
	"github.com/ovlmount/ovlmount/pkg/accessor/memory"
	"github.com/ovlmount/ovlmount/pkg/accessor/s3"
	"github.com/ovlmount/ovlmount/pkg/accessor/sftp"
	"github.com/ovlmount/ovlmount/pkg/ovlerrors"
)

// ConstructBackend resolves a GraphQL `mount` service identifier (spec §6:
// "resolvable to a backend constructor, e.g. fs, sftp, memory") and its
// flat parameter bag into a concrete accessor.Backend.
func ConstructBackend(ctx context.Context, scheme string, params map[string]string) (accessor.Backend, error) {
	switch scheme {
	case "memory":
		return memory.New(params["name"]), nil
	case "fs":
		dir := params["root"]
		if dir == "" {
			return nil, &ovlerrors.InvalidConfig{Field: "root"}
		}
		return localfs.New(params["name"], dir), nil
	case "sftp":
		cfg := sftp.Config{
			Addr:     params["addr"],
			User:     params["user"],
			Password: params["password"],
			Root:     params["root"],
		}
		backend, err := sftp.New(params["name"], cfg)
		if err != nil {
			return nil, &ovlerrors.BackendConstruction{Cause: err}
		}
		return backend, nil
	case "s3":
		cfg := s3.Config{
			Bucket:       params["bucket"],
			Prefix:       params["prefix"],
			Region:       params["region"],
			Endpoint:     params["endpoint"],
			UsePathStyle: params["path_style"] == "true",
		}
		backend, err := s3.New(ctx, params["name"], cfg)
		if err != nil {
			return nil, &ovlerrors.BackendConstruction{Cause: err}
		}
		return backend, nil
	default:
		return nil, &ovlerrors.UnsupportedScheme{Name: scheme}
	}
}

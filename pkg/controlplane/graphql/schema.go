// Package graphql implements the control-plane GraphQL surface of spec §6
// (fs query, mount/umount mutations) using graph-gophers/graphql-go,
// mirroring the Query/Mutation resolver-struct shape of the original
// opendal-mount source's async-graphql schema.rs.
package graphql

import (
	"context"
	"fmt"
	"net"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"

	"github.com/ovlmount/ovlmount/pkg/controlplane"
	"github.com/ovlmount/ovlmount/pkg/mount"
)

const schemaString = `
	schema {
		query: Query
		mutation: Mutation
	}

	type MountedFs {
		id: ID!
		mountPoint: String!
		scheme: String!
		root: String!
		name: String!
	}

	input KeyValue {
		key: String!
		value: String!
	}

	type Query {
		fs: [MountedFs!]!
	}

	type Mutation {
		mount(service: String!, parameters: [KeyValue!], mountPoint: String!): ID!
		umount(id: ID!): Boolean!
	}
`

// Config carries the dependencies resolvers need to construct backends and
// drive mount/umount.
type Config struct {
	Registry     *controlplane.Registry
	BindHost     string
	BasePort     int
	UID, GID     uint32
	MountNatHost string // host/IP the mount command dials, e.g. 127.0.0.1
}

type mountedFsResolver struct {
	fs controlplane.MountedFs
}

func (r *mountedFsResolver) ID() graphql.ID       { return graphql.ID(r.fs.ID.String()) }
func (r *mountedFsResolver) MountPoint() string   { return r.fs.MountPoint }
func (r *mountedFsResolver) Scheme() string       { return r.fs.Scheme }
func (r *mountedFsResolver) Root() string         { return r.fs.Root }
func (r *mountedFsResolver) Name() string         { return r.fs.Name }

type keyValueInput struct {
	Key   string
	Value string
}

type mountArgs struct {
	Service    string
	Parameters *[]keyValueInput
	MountPoint string
}

type umountArgs struct {
	ID graphql.ID
}

// Resolver is the root GraphQL resolver implementing both Query and
// Mutation.
type Resolver struct {
	cfg Config
}

// NewSchema parses the schema string and binds it to a Resolver over cfg.
func NewSchema(cfg Config) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaString, &Resolver{cfg: cfg})
}

func (r *Resolver) Fs(ctx context.Context) ([]*mountedFsResolver, error) {
	list := r.cfg.Registry.List()
	out := make([]*mountedFsResolver, 0, len(list))
	for _, fs := range list {
		out = append(out, &mountedFsResolver{fs: fs})
	}
	return out, nil
}

func (r *Resolver) Mount(ctx context.Context, args mountArgs) (graphql.ID, error) {
	params := map[string]string{}
	if args.Parameters != nil {
		for _, kv := range *args.Parameters {
			params[kv.Key] = kv.Value
		}
	}

	backend, err := controlplane.ConstructBackend(ctx, args.Service, params)
	if err != nil {
		return "", err
	}

	bindAddr := fmt.Sprintf("%s:0", r.cfg.BindHost)
	id, err := r.cfg.Registry.RegisterService(ctx, controlplane.RegisterOptions{
		BindAddr:   bindAddr,
		MountPoint: args.MountPoint,
		Scheme:     args.Service,
		Root:       params["root"],
		Name:       params["name"],
		UID:        r.cfg.UID,
		GID:        r.cfg.GID,
	}, backend)
	if err != nil {
		return "", err
	}

	addr, _ := r.cfg.Registry.LocalAddr(id)
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		host := r.cfg.MountNatHost
		if host == "" {
			host = "127.0.0.1"
		}
		if err := mount.Mount(ctx, mount.Options{
			MountPoint: args.MountPoint,
			Host:       host,
			Port:       tcpAddr.Port,
			ReadOnly:   false,
		}); err != nil {
			_, _ = r.cfg.Registry.Unregister(id)
			return "", err
		}
	}

	return graphql.ID(id.String()), nil
}

func (r *Resolver) Umount(ctx context.Context, args umountArgs) (bool, error) {
	id, err := uuid.Parse(string(args.ID))
	if err != nil {
		return false, err
	}
	fsRecord, ok := r.cfg.Registry.Get(id)
	if !ok {
		return r.cfg.Registry.Unregister(id)
	}
	if err := mount.Umount(ctx, mount.Options{MountPoint: fsRecord.MountPoint}); err != nil {
		return false, err
	}
	return r.cfg.Registry.Unregister(id)
}

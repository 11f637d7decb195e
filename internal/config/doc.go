// Package config defines the project configuration of fxgraph, read from an
// `fxgraph.yaml` file at the project root, along with the GraphLoader
// interface the application uses to turn authored graph files into a node
// tree and expression pool.
//
// The `config.Model` is the single source of truth for the `app` package.
// Command-line flags override individual fields after loading; Validate must
// run after overrides are applied.
package config

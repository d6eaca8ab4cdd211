// Package hefsclient provides the primary entry point for constructing a
// project directory API client that implements the hefs.Client interface.
//
// It layers configuration, HTTP transport, and startup hydration on top of
// the entity types and manager interfaces defined in the hefs package. Most
// applications import hefsclient to build a client, wait for it to become
// ready, then use the managers returned by Guilds(), Projects(),
// Submissions(), and Admin().
//
// Quick start
//
//	import (
//	  "context"
//	  "fmt"
//	  "log"
//
//	  "github.com/edqe14/hefs/pkg/hefs"
//	  "github.com/edqe14/hefs/pkg/hefsclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Anonymous access to the production API.
//	  cli, err := hefsclient.New(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  // Or with a session token, which also loads the whitelist.
//	  cli, err = hefsclient.NewWithSession(ctx, "holoen.fans/api", "token")
//
//	  if err := cli.AwaitReady(ctx); err != nil { log.Fatal(err) }
//
//	  for _, project := range cli.Projects().Cache().Values() {
//	    fmt.Println(project.Title, project.URL)
//	  }
//	}
//
// # Base URL
//
// New normalizes Config.BaseURL: trailing slashes are removed, https:// is
// added when no scheme is given, and an empty value selects the production
// API.
//
// # Helpers
//
// NewWithBaseURL and NewWithSession are shorthands for the most common
// configurations.
package hefsclient

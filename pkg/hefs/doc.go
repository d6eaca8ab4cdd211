// Package hefs provides types, interfaces, and helpers for working with the
// fan-community project directory API.
//
// # Overview
//
// The hefs package defines the entities (Guild, Project, Submission, Media,
// Link, Setting) and the interfaces of the managers that cache them
// (GuildsClient, ProjectsClient, SubmissionsClient, AdminClient). A concrete
// client is provided by the hefsclient package, which wires configuration,
// transport, and startup hydration. Most consumers import hefsclient to
// construct a client and then use the interfaces defined here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/edqe14/hefs/pkg/hefs"
//	  "github.com/edqe14/hefs/pkg/hefsclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := hefsclient.New(ctx, &hefs.Config{Session: "..."})
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  if err := cli.AwaitReady(ctx); err != nil { log.Fatal(err) }
//
//	  guild := cli.Guilds().Resolve(hefs.GuildID("g1"))
//	  _ = guild
//	}
//
// # Caches and resolvables
//
// Every manager owns a Collection keyed by identifier. Resolve and ResolveID
// accept a Resolvable, which holds either a raw identifier (GuildID,
// ProjectID, ProjectNumber, SubmissionID, SettingID) or a live entity
// (Ref, or the entity's own Ref method). Unknown identifiers resolve to nil;
// only network-backed operations return errors.
//
// Fetch returns a cached entity without a request unless WithForce is given.
// FetchAll without WithForce returns a snapshot of the cache. WithoutCache
// leaves the cache untouched.
//
// # Errors
//
// Payload problems are reported as *ValidationError before any request is
// sent. Non-2xx responses and transport failures are reported as
// *FetchError. IsValidation, IsNotFound, and StatusCode help branch on them.
//
// # Readiness
//
// The client and every manager expose State, IsReady, and AwaitReady. The
// ready transition happens once; waiters that arrive afterwards return
// immediately. Failures of background hydration are passed to
// Config.OnError and logged, and never block readiness.
package hefs

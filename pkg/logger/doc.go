// Package logger builds the service's *slog.Logger and provides attribute
// helpers so log keys stay consistent across packages.
//
//	log := logger.New(
//		logger.WithEnvironment("production", "tenantkit"),
//		logger.WithContextExtractors(tenant.LoggerExtractor(), authn.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "invitation accepted", logger.InvitationID(inv.ID))
//
// Context extractors run on every record, so request-scoped values such as
// the resolved organization show up without being passed around.
package logger

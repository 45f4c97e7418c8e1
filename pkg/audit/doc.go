// Package audit records who changed what inside a tenant.
//
// A Logger builds events from the request context (tenant, actor, request
// id) and hands them to a Storage. Writes are synchronous; a failing
// storage surfaces its error to the caller, who decides whether to log and
// continue.
//
//	auditLog := audit.NewLogger(storage,
//		audit.WithOrgIDExtractor(tenant.OrgIDFromContext),
//		audit.WithActorIDExtractor(authn.UserIDFromContext),
//	)
//	_ = auditLog.Log(ctx, "invitation.created",
//		audit.WithResource("invitation", inv.ID.String()),
//	)
package audit

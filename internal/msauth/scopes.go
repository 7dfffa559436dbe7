package msauth

// Microsoft Graph permission scopes. Every command carries ScopeUserRead;
// calendar access adds the read or write calendar scope.
const (
	ScopeUserRead           = "User.Read"
	ScopeCalendarsRead      = "Calendars.Read"
	ScopeCalendarsReadWrite = "Calendars.ReadWrite"
)

// baseScopes are requested on every device-code grant in addition to the
// command's required scopes. offline_access yields a refresh token.
var baseScopes = []string{"openid", "offline_access"}

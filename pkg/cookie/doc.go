// Package cookie manages HTTP cookies with optional HMAC-SHA256
// authentication. It is the transport collaborator of the session
// subsystem: session and visit tokens travel as signed cookies so that a
// client cannot mint or alter them.
//
// # Usage
//
//	mgr, err := cookie.New([]string{"secret-key-at-least-32-chars-long"})
//	if err != nil {
//	    // handle error
//	}
//
//	// Plain cookie
//	_ = mgr.Set(w, "theme", "dark")
//
//	// Signed cookie
//	_ = mgr.SetSigned(w, "sid", token, cookie.WithMaxAge(3600))
//	token, err = mgr.GetSigned(r, "sid")
//
// Secrets rotate: values are signed with the first secret and verified
// against every configured one, so old cookies stay readable while new
// ones pick up the fresh key.
//
// Default attributes are Path=/, HttpOnly and SameSite=Lax; override them
// per manager via New options or per call via Set options. Configuration
// can also come from the environment through Config and NewFromConfig.
package cookie

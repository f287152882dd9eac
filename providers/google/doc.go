// Package google provides the Google-specific pieces of the sign-in flow.
//
// UserInfoFetcher implements providers.UserInfoFetcher by calling
// https://www.googleapis.com/userinfo/v2/me with the access token as bearer
// credential and mapping id, name, given_name, family_name, picture and email.
//
// Document returns Google's discovery metadata (built from
// golang.org/x/oauth2/google.Endpoint) so an oidc.DiscoveryClient can be seeded
// for https://accounts.google.com.
//
// Example usage:
//
//	fetcher := google.NewUserInfoFetcher(nil)
//	info, err := fetcher.FetchUserInfo(ctx, token.AccessToken)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(info.Email)
package google

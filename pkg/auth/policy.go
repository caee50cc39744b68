package auth

import (
	"github.com/aws/aws-lambda-go/events"
)

// Effect values for gateway authorization policies
const (
	EffectAllow = "Allow"
	EffectDeny  = "Deny"
)

// BuildPolicy assembles the IAM policy document a gateway authorizer
// returns. The context map travels with the request into downstream
// handlers.
func BuildPolicy(principalID, effect, resource string, context map[string]interface{}) events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: principalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{"execute-api:Invoke"},
					Effect:   effect,
					Resource: []string{resource},
				},
			},
		},
		Context: context,
	}
}

// DenyAll returns a policy that rejects the request outright
func DenyAll(resource string) events.APIGatewayCustomAuthorizerResponse {
	return BuildPolicy("unauthorized", EffectDeny, resource, nil)
}

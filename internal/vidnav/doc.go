// Package vidnav turns VidNavigator operations into authenticated JSON-RPC
// calls.
//
// A host supplies three collaborators: a ParameterSource that yields each
// item's parameters, a CredentialSource for the base URL and token, and an
// AuthenticatedTransport that sends the request. The Executor runs one call
// per input item, in order, and wraps every response into an OutputRecord.
// DiscoverTools lists the remote tools for the callTool operation and never
// fails.
package vidnav

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the EtherVote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, sessions, reconciler, cfg)

# Endpoints

Health:

	GET /health - Pings the store

Identity (rate limited per client):

	POST /auth/register - Register voter
	POST /auth/login    - Issue bearer token

Session (Authorization: Bearer):

	GET  /auth/session - Current voter
	POST /auth/logout  - Revoke token
	PUT  /me/wallet    - Link wallet address
	GET  /me/vote      - Vote receipt
	POST /votes        - Cast vote

Public:

	GET /candidates?district=&constituency= - Candidate directory
	GET /candidates/{id}                    - One candidate
	GET /districts                          - Districts and constituencies
	GET /results?district=&constituency=    - Ranked results
	GET /images/{name}                      - Candidate images

Admin (admin role):

	POST /candidates              - Add candidate
	PUT  /admin/voters/{id}/role  - Assign role
	POST /admin/reconcile         - Audit and repair tallies
*/
package router

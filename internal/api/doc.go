package api

// Package api is the HTTP gateway to the Photo-z Server backend REST API.
// A single configured Client exposes typed operations for products, product
// files, column associations, reference data, authentication and tokens.
// Every request reads the bearer token from a credential provider at call
// time; the gateway performs no retries and no caching.

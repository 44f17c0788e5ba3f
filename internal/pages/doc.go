// Package pages provides the default page providers: one view per page, the
// loading skeletons shown while lazy pages load, and the onboarding flow.
//
// Providers only read from the ledger. The shell never looks inside them; it
// sees registry descriptors.
package pages

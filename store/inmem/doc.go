/*
Package inmem implements the store DAO interface. This implementation is meant
to get skyway up and running quickly without a dedicated DB. Stage records only
live as long as the process, so it is recommended for single instance
deployments and tests.
*/
package inmem

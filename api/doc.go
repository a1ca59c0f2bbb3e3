// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package api exposes the search, price, book and pay stages over HTTP. Errors
are written with the status code they carry and an X-Skyway-Error header.
*/
package api

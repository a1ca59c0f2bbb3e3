// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package coordinator drives the price, book and pay stages. Each stage reads the
record left by the previous one, resolves the provider named in that record,
calls it and records its own result for the next stage. A missing or expired
record is a NotFoundError and never reaches a provider.
*/
package coordinator

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - JoinRoomRequest: member_name
  - CastVoteRequest: vote_value (integer story points)
  - SetDoneRequest: done
  - RenameMemberRequest: member_name

# Response Types

Types for JSON responses:

  - CreateRoomResponse: room_code, master_key
  - JoinRoomResponse: member_id, message
  - ActionResponse: success, message
  - RevealResponse: success, votes
  - StatsResponse: success, stats
  - MembersResponse: success, members, all_done
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Room: room identity and lifecycle flags
  - Member: roster entry with done flag
  - RoomStatus: compact lifecycle read for pollers and SSE
  - MemberState: a member's current vote and done flag
  - RevealedVote: (member_name, vote_value) pair exposed on reveal
  - VoteStats: average/min/max/count over the current round

# Constants

Vote bounds:

  - MinVoteValue (0) and MaxVoteValue (1000): votes outside this range are
    rejected with a validation error at cast time
*/
package models

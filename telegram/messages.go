package telegram

const MsgWelcome = `👋 Welcome to the league bot!

I manage match sessions, result acknowledgements and disputes for league channels. Type /help to see what I can do.`

const MsgHelp = `<b>Match commands</b>
/match_start [best_of] — start a match (marshal)
/game_result &lt;text&gt; — post a game result (marshal)
/match_undo_game — remove the last game (marshal)
/match_force_ack &lt;team&gt; — force an acknowledgement after 5 minutes (marshal)
/match_end — end the match (marshal)
/match_cancel — cancel the match (marshal)
/match_status — show the current match

Teams confirm a result by replying "i acknowledge".
Use the ⚠️ button under a result to dispute it.

<b>Other commands</b>
/verify &lt;ign&gt; — issue a verification link (marshal)
/ticket &lt;subject&gt; — open a support ticket
/ticket_close — close your ticket
/announce &lt;minutes&gt; &lt;text&gt; — schedule a recurring announcement (marshal)
/announce_stop — stop announcements in this channel (marshal)
/set_marshal_role &lt;id&gt; — set the marshal role (admin)`

package web

// appCSS is served from /static/app.css. Kept in the binary so the server
// needs no asset directory at runtime.
const appCSS = `
:root{
  --bg: #0e1117;
  --panel: #161b24;
  --text: #e6e9ef;
  --muted: #9aa4b2;
  --accent: #2563eb;
  --ok: #10b981;
  --err: #ef4444;
  --line: rgba(255,255,255,0.08);
  --badge: rgba(255,255,255,0.10);
  --mono: ui-monospace, SFMono-Regular, Menlo, Consolas, "Liberation Mono", monospace;
  --sans: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial, sans-serif;
}
*{box-sizing:border-box}
body{
  margin:0;
  font-family:var(--sans);
  background:var(--bg);
  color:var(--text);
}
.container{max-width:920px; margin:0 auto; padding:28px 20px 60px}
.header{margin-bottom:18px}
.title{margin:0; font-size:26px}
.subtitle{margin-top:6px; color:var(--muted); font-size:14px}
.nav{margin-top:8px; display:flex; gap:14px}
.nav a{color:var(--accent); text-decoration:none; font-size:14px}
.nav a:hover{text-decoration:underline}
.flash{margin:0 0 16px; padding:10px 14px; border-radius:8px; font-size:14px}
.flash-ok{background:rgba(16,185,129,0.12); border:1px solid var(--ok)}
.flash-error{background:rgba(239,68,68,0.12); border:1px solid var(--err)}
.panel{
  background:var(--panel);
  border:1px solid var(--line);
  border-radius:12px;
  padding:14px 16px;
  margin-bottom:16px;
}
.panelTitle{margin:0 0 10px; font-size:14px; letter-spacing:0.4px; text-transform:uppercase; color:var(--muted)}
.groupHead{display:flex; justify-content:space-between; align-items:baseline; gap:12px; flex-wrap:wrap}
.groupActions{display:flex; gap:8px; flex-wrap:wrap}
.card{border-top:1px solid var(--line); padding:12px 0}
.cardHead{display:flex; justify-content:space-between; align-items:baseline; gap:12px}
.cardTitle{margin:0; font-size:17px}
.cardTotal{font-family:var(--mono); font-size:15px; color:var(--muted)}
.cardActions{display:flex; gap:8px; margin-top:8px; flex-wrap:wrap}
.tagForms{display:flex; gap:8px; margin-top:8px; flex-wrap:wrap}
.inlineForm{display:inline-flex; gap:6px; align-items:center; flex-wrap:wrap}
.block{margin-top:10px}
.block summary{cursor:pointer; color:var(--muted); font-size:13px}
.goal{margin-top:10px}
.goalMeta{margin-top:4px; color:var(--muted); font-size:13px}
.bar{width:100%; height:10px; accent-color:var(--accent)}
.rows{width:100%; border-collapse:collapse; margin-top:8px; font-size:14px}
.rows td{padding:4px 8px 4px 0; border-bottom:1px solid var(--line); vertical-align:middle}
.tasks{list-style:none; margin:8px 0 0; padding:0}
.task{display:flex; gap:10px; align-items:center; padding:4px 0; font-size:14px}
.task.done .taskTitle{text-decoration:line-through; color:var(--muted)}
.badge{
  display:inline-block;
  padding:1px 8px;
  margin-left:6px;
  border-radius:999px;
  background:var(--badge);
  font-size:12px;
  font-weight:normal;
}
.badge.running{background:rgba(16,185,129,0.18); color:var(--ok)}
.mono{font-family:var(--mono)}
.muted{color:var(--muted); font-weight:normal}
.empty{padding:16px; color:var(--muted)}
.grand{margin-top:4px; font-size:16px; text-align:right}
input, select{
  background:var(--bg);
  border:1px solid var(--line);
  border-radius:6px;
  color:var(--text);
  padding:5px 8px;
  font-size:13px;
}
button{
  background:var(--accent);
  border:none;
  border-radius:6px;
  color:#fff;
  padding:5px 10px;
  font-size:13px;
  cursor:pointer;
}
button.danger{background:var(--err)}
button.linkish{background:none; color:var(--accent); padding:2px 4px}
button.linkish:hover{text-decoration:underline}
@media (prefers-color-scheme: light){
  :root{
    --bg:#f5f7fb;
    --panel:#ffffff;
    --text:#111827;
    --muted:#4b5563;
    --line: rgba(17,24,39,0.12);
    --badge: rgba(17,24,39,0.08);
  }
}
`

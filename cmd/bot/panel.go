package main

// panelHTML is the single-page control panel. It polls /logs once a
// second for the connection state and the recent log window.
const panelHTML = `<!DOCTYPE html><html><body style="background:#000;color:#0f0;font-family:monospace;text-align:center">
<h2>TITAN TIC-TAC-TOE BOT</h2><div id="s" style="color:red">OFFLINE</div>
<input id="u" placeholder="User"><input id="p" type="password" placeholder="Pass"><input id="r" placeholder="Room">
<br><button onclick="c()">Connect</button><button onclick="d()">Disconnect</button>
<div id="l" style="border:1px solid #333;height:200px;overflow:auto;margin-top:20px;text-align:left"></div>
<img id="b" src="/render" width="300" height="300" style="margin-top:20px;border:1px solid #333">
<script>
function c(){fetch('/connect',{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify({u:document.getElementById('u').value,p:document.getElementById('p').value,r:document.getElementById('r').value})})}
function d(){fetch('/disconnect',{method:'POST'})}
setInterval(()=>{fetch('/logs').then(r=>r.json()).then(d=>{
document.getElementById('s').innerText=d.state.toUpperCase();document.getElementById('s').style.color=d.connected?'#0f0':'red';
document.getElementById('l').innerHTML=d.logs.map(x=>'<div>'+x.replace(/</g,'&lt;')+'</div>').join('')})},1000)
</script></body></html>
`
